// Package model defines the core data structures for calorie-cli.
package model

import (
	"strings"
	"time"
)

// FoodEntry is one logged food item.
type FoodEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Calories  int       `json:"calories"`
	Protein   *int      `json:"protein,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DayData is the whole persisted log: bucket key (YYYY-MM-DD) to entries in
// insertion order.
type DayData map[string][]FoodEntry

// EntryUpdate carries the fields an edit may change. Nil fields are left alone.
type EntryUpdate struct {
	Name     *string `json:"name,omitempty"`
	Calories *int    `json:"calories,omitempty"`
	Protein  *int    `json:"protein,omitempty"`
}

// IsEmpty returns true if the update changes nothing.
func (u EntryUpdate) IsEmpty() bool {
	return u.Name == nil && u.Calories == nil && u.Protein == nil
}

// Apply merges u into the entry. ID and Timestamp never change.
func (e *FoodEntry) Apply(u EntryUpdate) {
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.Calories != nil {
		e.Calories = *u.Calories
	}
	if u.Protein != nil {
		p := *u.Protein
		e.Protein = &p
	}
}

// ProteinOrZero returns the protein grams, treating a missing value as 0.
func (e *FoodEntry) ProteinOrZero() int {
	if e.Protein == nil {
		return 0
	}
	return *e.Protein
}

// Validate checks if the entry has required fields.
func (e *FoodEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return NewValidationError("name", "Please enter a food item")
	}
	if err := ValidateCalories(e.Calories); err != nil {
		return err
	}
	if e.Protein != nil {
		return ValidateProtein(*e.Protein)
	}
	return nil
}

// Sum returns the calorie and protein totals over entries.
func Sum(entries []FoodEntry) (calories, protein int) {
	for i := range entries {
		calories += entries[i].Calories
		protein += entries[i].ProteinOrZero()
	}
	return calories, protein
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
