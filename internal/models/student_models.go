package models

import "time"

// StudentStatus values derived at conversion time from the membership end date.
const (
	StudentStatusActive  = "active"
	StudentStatusExpired = "expired"
)

// Student represents a converted (admitted) member of a library.
type Student struct {
	ID                 int64      `json:"id" db:"id"`
	LibraryID          int64      `json:"-" db:"library_id"`
	RegistrationNumber string     `json:"registration_number" db:"registration_number"`
	Name               string     `json:"name" db:"name"`
	Phone              *string    `json:"phone,omitempty" db:"phone"`
	Address            *string    `json:"address,omitempty" db:"address"`
	GuardianName       *string    `json:"guardian_name,omitempty" db:"guardian_name"`
	IDProofNumber      *string    `json:"id_proof_number,omitempty" db:"id_proof_number"`
	ProfileImage       *string    `json:"profile_image,omitempty" db:"profile_image"`
	IDProofImage       *string    `json:"id_proof_image,omitempty" db:"id_proof_image"`
	BranchID           *int64     `json:"branch_id,omitempty" db:"branch_id"`
	MembershipStart    *time.Time `json:"membership_start,omitempty" db:"membership_start"`
	MembershipEnd      *time.Time `json:"membership_end,omitempty" db:"membership_end"`
	TotalFee           float64    `json:"total_fee" db:"total_fee"`
	PaidAmount         float64    `json:"paid_amount" db:"paid_amount"`
	DueAmount          float64    `json:"due_amount" db:"due_amount"`
	CashAmount         float64    `json:"cash_amount" db:"cash_amount"`
	OnlineAmount       float64    `json:"online_amount" db:"online_amount"`
	SecurityDeposit    float64    `json:"security_deposit" db:"security_deposit"`
	Discount           float64    `json:"discount" db:"discount"`
	Status             string     `json:"status" db:"status"` // active or expired
	IsActive           bool       `json:"is_active" db:"is_active"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`

	BranchName *string `json:"branch_name,omitempty"` // Joined on reads
}

// StudentAccount is the self-service login credential binding for a student.
// Name and registration number are denormalized at write time for fast profile lookup.
type StudentAccount struct {
	ID                 int64     `json:"id" db:"id"`
	LibraryID          int64     `json:"-" db:"library_id"`
	StudentID          int64     `json:"student_id" db:"student_id"`
	Phone              string    `json:"phone" db:"phone"`
	PasswordHash       string    `json:"-" db:"password_hash"`
	Name               string    `json:"name" db:"name"`
	RegistrationNumber string    `json:"registration_number" db:"registration_number"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// MembershipHistory is an append-only snapshot of a student's membership and
// financial terms at the moment of creation or change. Rows are never updated
// or deleted; staleness relative to later profile edits is intentional.
type MembershipHistory struct {
	ID              int64      `json:"id" db:"id"`
	LibraryID       int64      `json:"-" db:"library_id"`
	StudentID       int64      `json:"student_id" db:"student_id"`
	BranchID        *int64     `json:"branch_id,omitempty" db:"branch_id"`
	SeatID          *int64     `json:"seat_id,omitempty" db:"seat_id"`
	ShiftID         *int64     `json:"shift_id,omitempty" db:"shift_id"` // Primary shift only
	MembershipStart *time.Time `json:"membership_start,omitempty" db:"membership_start"`
	MembershipEnd   *time.Time `json:"membership_end,omitempty" db:"membership_end"`
	TotalFee        float64    `json:"total_fee" db:"total_fee"`
	PaidAmount      float64    `json:"paid_amount" db:"paid_amount"`
	DueAmount       float64    `json:"due_amount" db:"due_amount"`
	SecurityDeposit float64    `json:"security_deposit" db:"security_deposit"`
	Discount        float64    `json:"discount" db:"discount"`
	ChangedAt       time.Time  `json:"changed_at" db:"changed_at"`
}

// StudentFilters defines the available filters for querying students.
type StudentFilters struct {
	Search   *string `form:"search"` // Matches name or phone
	Status   *string `form:"status"`
	Page     int     `form:"page"`
	PageSize int     `form:"limit"`
}
