package models

import "time"

// Board is a collaborative workspace with a single owner.
type Board struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	OwnerID   int64     `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BoardCreateRequest represents the request payload for board creation.
type BoardCreateRequest struct {
	Name string `json:"name"`
}

// BoardPatch is a partial update of a board.
type BoardPatch struct {
	Name Field[string] `json:"name"`
}

// BoardMembership grants a non-owner user read/write access to a board.
// Presence is the whole payload; the owner is implicitly a member and is
// never stored as a row.
type BoardMembership struct {
	BoardID   int64     `json:"board_id" db:"board_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MemberRequest represents the request payload for adding or removing a
// board member.
type MemberRequest struct {
	UserID int64 `json:"user_id"`
}
