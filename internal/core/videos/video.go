package videos

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/users"
)

// Stored attribute names shared by filters, sorts and Row.Value
const (
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
	FieldLikes       = "likes"
	FieldDislikes    = "dislikes"
	FieldViews       = "views"
	FieldDuration    = "duration"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldTags        = "tags"
	FieldOwner       = "owner"
	FieldIsPublished = "isPublished"
)

// Collection is the video feed configuration. likes and dislikes sort by the
// size of the counter sets.
var Collection = &feeds.Collection{
	Name: "videos",
	Sortable: map[string]feeds.SortField{
		FieldCreatedAt: {Field: FieldCreatedAt},
		FieldUpdatedAt: {Field: FieldUpdatedAt},
		FieldLikes:     {Field: FieldLikes, Size: true},
		FieldDislikes:  {Field: FieldDislikes, Size: true},
		FieldViews:     {Field: FieldViews},
		FieldDuration:  {Field: FieldDuration},
	},
	Filterable: map[string]feeds.Op{
		FieldCategory: feeds.OpEq,
		FieldTags:     feeds.OpHasTag,
	},
	DefaultSort:      FieldCreatedAt,
	DefaultDirection: feeds.Asc,
	TextFields:       []string{FieldTitle, FieldDescription, FieldCategory},
	TagField:         FieldTags,
}

// Video is the stored video document. Likes and Dislikes are the counter
// sets mirrored from the reaction ledger.
type Video struct {
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	VideoURL     string      `json:"videoFile"`
	ThumbnailURL string      `json:"thumbnail"`
	Tags         []string    `json:"tags"`
	Likes        []uuid.UUID `json:"likes"`
	Dislikes     []uuid.UUID `json:"dislikes"`
	Duration     float64     `json:"duration"`
	Views        int64       `json:"views"`
	ID           uuid.UUID   `json:"id"`
	Owner        uuid.UUID   `json:"owner"`
	IsPublished  bool        `json:"isPublished"`
}

func (v *Video) OwnerID() uuid.UUID { return v.Owner }

func (v *Video) RowID() uuid.UUID { return v.ID }

func (v *Video) Value(field string) any {
	switch field {
	case FieldCreatedAt:
		return v.CreatedAt
	case FieldUpdatedAt:
		return v.UpdatedAt
	case FieldLikes:
		return v.Likes
	case FieldDislikes:
		return v.Dislikes
	case FieldViews:
		return int(v.Views)
	case FieldDuration:
		return v.Duration
	case FieldTitle:
		return v.Title
	case FieldDescription:
		return v.Description
	case FieldCategory:
		return v.Category
	case FieldTags:
		return v.Tags
	case FieldOwner:
		return v.Owner
	case FieldIsPublished:
		return v.IsPublished
	}
	return nil
}

// ReactionOf reports which counter set holds actor, or "" when neither does
func (v *Video) ReactionOf(actor uuid.UUID) reactions.Kind {
	for _, id := range v.Likes {
		if id == actor {
			return reactions.KindLike
		}
	}
	for _, id := range v.Dislikes {
		if id == actor {
			return reactions.KindDislike
		}
	}
	return ""
}

// View is the read projection returned by listings and lookups
type View struct {
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Owner          users.Profile  `json:"owner"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	VideoURL       string         `json:"videoFile"`
	ThumbnailURL   string         `json:"thumbnail"`
	ViewerReaction reactions.Kind `json:"viewerReaction,omitempty"`
	Tags           []string       `json:"tags"`
	Duration       float64        `json:"duration"`
	Views          int64          `json:"views"`
	Likes          int            `json:"likes"`
	Dislikes       int            `json:"dislikes"`
	ID             uuid.UUID      `json:"id"`
	IsPublished    bool           `json:"isPublished"`
}

// NewView projects v with its owner profile. viewer may be nil.
func NewView(v *Video, owner users.Profile, viewer *uuid.UUID) View {
	view := View{
		ID:           v.ID,
		Owner:        owner,
		Title:        v.Title,
		Description:  v.Description,
		Category:     v.Category,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Tags:         v.Tags,
		Duration:     v.Duration,
		Views:        v.Views,
		Likes:        len(v.Likes),
		Dislikes:     len(v.Dislikes),
		IsPublished:  v.IsPublished,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
	if view.Tags == nil {
		view.Tags = []string{}
	}
	if viewer != nil {
		view.ViewerReaction = v.ReactionOf(*viewer)
	}
	return view
}

// PublishRequest carries video metadata. The media itself has already been
// stored by the upload service, which hands back the two URLs.
type PublishRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	VideoURL     string   `json:"videoFile"`
	ThumbnailURL string   `json:"thumbnail"`
	Tags         []string `json:"tags"`
	Duration     float64  `json:"duration"`
}

// UpdateRequest replaces the editable details. ThumbnailURL is optional.
type UpdateRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	ThumbnailURL string   `json:"thumbnail"`
	Tags         []string `json:"tags"`
}

// Details is the validated form of UpdateRequest handed to the repository
type Details struct {
	Title        string
	Description  string
	Category     string
	ThumbnailURL string
	Tags         []string
}

// NormalizeTags splits comma separated entries, trims, lower-cases and
// de-duplicates while keeping first-seen order
func NormalizeTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, entry := range raw {
		for _, tag := range strings.Split(entry, ",") {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}
