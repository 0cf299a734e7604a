// Package upload validates candidate files against per-category size ceilings.
package upload

import (
	"fmt"
	"strings"

	"github.com/folioengine/folio/internal/limits"
	"github.com/folioengine/folio/internal/media"
)

// File is one upload candidate.
type File struct {
	Name      string `json:"name"`
	Mime      string `json:"mime"`
	SizeBytes int64  `json:"size_bytes"`
}

// Rejection names a refused file and the human-readable reason.
type Rejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Outcome partitions the input batch. Every input file appears in exactly
// one of the two sequences, in input order.
type Outcome struct {
	Valid    []File      `json:"valid"`
	Rejected []Rejection `json:"rejected"`
}

// Validate checks each file against the ceiling for its MIME category.
// An unset ceiling (zero) accepts any size. Pure function; the rejection
// reason is structured data for the upload layer, never an error.
func Validate(files []File, l limits.Limits) Outcome {
	out := Outcome{
		Valid:    make([]File, 0, len(files)),
		Rejected: make([]Rejection, 0),
	}
	for _, f := range files {
		ceiling := ceilingFor(f.Mime, l)
		if ceiling > 0 && f.SizeBytes > ceiling*limits.MB {
			out.Rejected = append(out.Rejected, Rejection{
				Name:   f.Name,
				Reason: rejectionReason(f, ceiling),
			})
			continue
		}
		out.Valid = append(out.Valid, f)
	}
	return out
}

// ceilingFor selects the MB ceiling by MIME category. Video and audio have
// their own ceilings; everything else falls under the image ceiling.
func ceilingFor(mime string, l limits.Limits) int64 {
	switch media.CategoryOf(mime) {
	case media.CategoryVideo:
		return l.MaxVideoMB
	case media.CategoryAudio:
		return l.MaxAudioMB
	default:
		return l.MaxImageMB
	}
}

func rejectionReason(f File, ceilingMB int64) string {
	sizeMB := float64(f.SizeBytes) / float64(limits.MB)
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = "file"
	}
	return fmt.Sprintf("%s is %.1fMB (limit is %dMB)", name, sizeMB, ceilingMB)
}
