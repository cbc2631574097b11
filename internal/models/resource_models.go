package models

import "time"

// Branch represents a physical location of a library.
type Branch struct {
	ID        int64     `json:"id" db:"id"`
	LibraryID int64     `json:"-" db:"library_id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	Address   *string   `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Seat represents a physical seat in a branch.
type Seat struct {
	ID         int64     `json:"id" db:"id"`
	LibraryID  int64     `json:"-" db:"library_id"`
	BranchID   *int64    `json:"branch_id,omitempty" db:"branch_id"`
	SeatNumber string    `json:"seat_number" db:"seat_number"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Shift represents a named recurring time window a student is allotted at a seat.
type Shift struct {
	ID          int64     `json:"id" db:"id"`
	LibraryID   int64     `json:"-" db:"library_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	StartTime   string    `json:"start_time" db:"start_time"` // e.g. "06:00"
	EndTime     string    `json:"end_time" db:"end_time"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Locker is a physical storage resource exclusively bound to at most one student.
type Locker struct {
	ID           int64     `json:"id" db:"id"`
	LibraryID    int64     `json:"-" db:"library_id"`
	LockerNumber string    `json:"locker_number" db:"locker_number"`
	IsAssigned   bool      `json:"is_assigned" db:"is_assigned"`
	StudentID    *int64    `json:"student_id,omitempty" db:"student_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SeatAssignment binds one student to one seat for one shift.
// A request carrying N shifts on one seat yields N assignment rows.
type SeatAssignment struct {
	ID        int64     `json:"id" db:"id"`
	LibraryID int64     `json:"-" db:"library_id"`
	SeatID    int64     `json:"seat_id" db:"seat_id"`
	ShiftID   int64     `json:"shift_id" db:"shift_id"`
	StudentID int64     `json:"student_id" db:"student_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
