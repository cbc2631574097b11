package models

import "time"

// AdmissionStatus defines the type for admission request statuses
type AdmissionStatus string

const (
	AdmissionStatusPending  AdmissionStatus = "pending"
	AdmissionStatusAccepted AdmissionStatus = "accepted"
	AdmissionStatusRejected AdmissionStatus = "rejected"
)

// IsValidAdmissionStatus checks if the provided status string is a valid AdmissionStatus.
func IsValidAdmissionStatus(status string) bool {
	switch AdmissionStatus(status) {
	case AdmissionStatusPending, AdmissionStatusAccepted, AdmissionStatusRejected:
		return true
	default:
		return false
	}
}

// AdmissionRequest represents a pending, accepted or rejected enrollment application.
// All monetary fields are stored as NUMERIC and normalized to 0 when NULL.
type AdmissionRequest struct {
	ID              int64      `json:"id" db:"id"`
	LibraryID       int64      `json:"-" db:"library_id"`
	Name            string     `json:"name" db:"name"`
	Phone           *string    `json:"phone,omitempty" db:"phone"`
	Address         *string    `json:"address,omitempty" db:"address"`
	GuardianName    *string    `json:"guardian_name,omitempty" db:"guardian_name"`
	IDProofNumber   *string    `json:"id_proof_number,omitempty" db:"id_proof_number"`
	ProfileImage    *string    `json:"profile_image,omitempty" db:"profile_image"`
	IDProofImage    *string    `json:"id_proof_image,omitempty" db:"id_proof_image"`
	BranchID        *int64     `json:"branch_id,omitempty" db:"branch_id"`
	MembershipStart *time.Time `json:"membership_start,omitempty" db:"membership_start"`
	MembershipEnd   *time.Time `json:"membership_end,omitempty" db:"membership_end"`
	TotalFee        float64    `json:"total_fee" db:"total_fee"`
	PaidAmount      float64    `json:"paid_amount" db:"paid_amount"`
	DueAmount       float64    `json:"due_amount" db:"due_amount"`
	CashAmount      float64    `json:"cash_amount" db:"cash_amount"`
	OnlineAmount    float64    `json:"online_amount" db:"online_amount"`
	SecurityDeposit float64    `json:"security_deposit" db:"security_deposit"`
	Discount        float64    `json:"discount" db:"discount"`
	SeatID          *int64     `json:"seat_id,omitempty" db:"seat_id"`
	ShiftIDs        []int64    `json:"shift_ids" db:"shift_ids"`
	LockerID        *int64     `json:"locker_id,omitempty" db:"locker_id"`
	Remark          *string    `json:"remark,omitempty" db:"remark"`
	Status          string     `json:"status" db:"status"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty" db:"processed_at"`
	ProcessedBy     *int64     `json:"processed_by,omitempty" db:"processed_by"`
	RejectionReason *string    `json:"rejection_reason,omitempty" db:"rejection_reason"`

	// Denormalized fields from joins, populated on reads
	BranchName      *string `json:"branch_name,omitempty"`
	SeatNumber      *string `json:"seat_number,omitempty"`
	LockerNumber    *string `json:"locker_number,omitempty"`
	ProcessedByName *string `json:"processed_by_name,omitempty"`
	Shifts          []Shift `json:"shifts,omitempty"` // Resolved shift objects, detail view only
}

// AdmissionFilters defines the available filters for querying admission requests.
type AdmissionFilters struct {
	Status   *string `form:"status"` // "all" or empty means no filter
	Page     int     `form:"page"`
	PageSize int     `form:"limit"`
}

// AdmissionStats holds per-status counts for a library's admission requests.
type AdmissionStats struct {
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}
