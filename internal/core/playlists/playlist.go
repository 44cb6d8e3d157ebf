package playlists

import (
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/users"
)

const (
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
	FieldName        = "name"
	FieldDescription = "description"
	FieldVideos      = "videos"
	FieldOwner       = "owner"
)

const maxNameLength = 150

// Collection is the playlist listing configuration. videos sorts by the
// number of entries.
var Collection = &feeds.Collection{
	Name: "playlists",
	Sortable: map[string]feeds.SortField{
		FieldCreatedAt: {Field: FieldCreatedAt},
		FieldUpdatedAt: {Field: FieldUpdatedAt},
		FieldName:      {Field: FieldName},
		FieldVideos:    {Field: FieldVideos, Size: true},
	},
	DefaultSort:      FieldCreatedAt,
	DefaultDirection: feeds.Desc,
	TextFields:       []string{FieldName, FieldDescription},
}

// Playlist is an ordered, duplicate-free list of videos. Name is unique per owner.
type Playlist struct {
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Videos      []uuid.UUID `json:"videos"`
	ID          uuid.UUID   `json:"id"`
	Owner       uuid.UUID   `json:"owner"`
}

func (p *Playlist) OwnerID() uuid.UUID { return p.Owner }

func (p *Playlist) RowID() uuid.UUID { return p.ID }

func (p *Playlist) Value(field string) any {
	switch field {
	case FieldCreatedAt:
		return p.CreatedAt
	case FieldUpdatedAt:
		return p.UpdatedAt
	case FieldName:
		return p.Name
	case FieldDescription:
		return p.Description
	case FieldVideos:
		return p.Videos
	case FieldOwner:
		return p.Owner
	}
	return nil
}

// Contains reports whether videoID is already in the playlist
func (p *Playlist) Contains(videoID uuid.UUID) bool {
	for _, id := range p.Videos {
		if id == videoID {
			return true
		}
	}
	return false
}

// Summary is the list projection
type Summary struct {
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	NoOfVideos  int       `json:"noOfVideos"`
	ID          uuid.UUID `json:"id"`
	Owner       uuid.UUID `json:"owner"`
}

func NewSummary(p *Playlist) Summary {
	return Summary{
		ID:          p.ID,
		Owner:       p.Owner,
		Name:        p.Name,
		Description: p.Description,
		NoOfVideos:  len(p.Videos),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Entry is one video inside a playlist detail view, annotated with the
// video's aggregate like and dislike counts
type Entry struct {
	Title         string    `json:"title"`
	Thumbnail     string    `json:"thumbnail"`
	Duration      float64   `json:"duration"`
	Views         int64     `json:"views"`
	TotalLikes    int       `json:"totalLikes"`
	TotalDislikes int       `json:"totalDislikes"`
	ID            uuid.UUID `json:"id"`
	Owner         uuid.UUID `json:"owner"`
}

// Detail is the single-playlist projection
type Detail struct {
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Owner       users.Profile `json:"owner"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Videos      []Entry       `json:"videos"`
	NoOfVideos  int           `json:"noOfVideos"`
	ID          uuid.UUID     `json:"id"`
}

// CreateRequest and UpdateRequest carry the editable fields
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
