package catalog

import (
	"strings"

	"github.com/google/uuid"

	"cinefile/internal/logging"
)

// localNamespace scopes synthesized IDs for movies without a provider match.
var localNamespace = uuid.MustParse("6f1c2a8e-4b7d-5e3a-9c10-2d4e6f8a0b1c")

// LocalID returns a stable identifier for a movie that has no provider ID.
// The same title and year always map to the same ID.
func LocalID(title string, year int) string {
	return "local-" + uuid.NewSHA1(localNamespace, []byte(titleYearKey(title, year))).String()
}

// MergeReport summarizes one Merge call.
type MergeReport struct {
	Added                int
	UpdatedByID          int
	CoalescedByTitleYear int
	// Conflicts counts title+year coalesces where both records named
	// different directors, and id updates whose new title and year already
	// belonged to another entry.
	Conflicts int
	Skipped   int
}

// Total returns the number of records that reached the catalog.
func (r MergeReport) Total() int {
	return r.Added + r.UpdatedByID + r.CoalescedByTitleYear
}

// Merge folds batch into the catalog. A record whose ID is already present
// overwrites provider fields and keeps user state. A record matching an
// existing entry by case-insensitive title and year only backfills empty
// fields on that entry. Anything else is appended. Rankings are unioned in
// both cases with incoming values winning.
//
// listID labels the batch in logs and events; rankings come from the records.
func (c *Catalog) Merge(batch []Movie, listID string) MergeReport {
	var report MergeReport
	var ids []string
	for _, incoming := range batch {
		kind, id, conflict := c.mergeOne(incoming, listID)
		switch kind {
		case mergeAdded:
			report.Added++
		case mergeUpdated:
			report.UpdatedByID++
		case mergeCoalesced:
			report.CoalescedByTitleYear++
		default:
			report.Skipped++
			continue
		}
		if conflict {
			report.Conflicts++
		}
		ids = append(ids, id)
	}

	c.logger.Info("catalog merge complete",
		logging.String(logging.FieldEventType, "catalog_merge"),
		logging.String(logging.FieldListID, listID),
		logging.Int("batch", len(batch)),
		logging.Int("added", report.Added),
		logging.Int("updated_by_id", report.UpdatedByID),
		logging.Int("coalesced", report.CoalescedByTitleYear),
		logging.Int("conflicts", report.Conflicts),
		logging.Int("skipped", report.Skipped),
		logging.Int("catalog_size", len(c.movies)),
	)
	if len(ids) > 0 {
		c.emit(Event{Kind: EventMoviesMerged, ListID: listID, MovieIDs: ids})
	}
	return report
}

// Add inserts a single movie under the same identity rules as Merge and
// returns the ID of the catalog entry that now represents it.
func (c *Catalog) Add(m Movie) (string, bool) {
	kind, id, _ := c.mergeOne(m, "")
	if kind == mergeSkipped {
		return "", false
	}
	c.emit(Event{Kind: EventMoviesMerged, MovieIDs: []string{id}})
	return id, true
}

type mergeKind int

const (
	mergeSkipped mergeKind = iota
	mergeAdded
	mergeUpdated
	mergeCoalesced
)

func (c *Catalog) mergeOne(incoming Movie, listID string) (mergeKind, string, bool) {
	incoming = incoming.Clone()
	incoming.Title = strings.TrimSpace(incoming.Title)
	if incoming.ID == "" {
		if incoming.Title == "" {
			c.logger.Warn("skipping record without id or title",
				logging.String(logging.FieldListID, listID),
			)
			return mergeSkipped, "", false
		}
		incoming.ID = LocalID(incoming.Title, incoming.Year)
	}

	idx, kind, ok := c.find(incoming)
	if !ok {
		if incoming.ListRankings == nil {
			incoming.ListRankings = map[string]int{}
		}
		c.append(incoming)
		return mergeAdded, incoming.ID, false
	}

	existing := c.movies[idx].Clone()
	switch kind {
	case matchByID:
		previous := c.movies[idx]
		patchFrom(incoming).overwrite(&existing)
		existing.ListRankings = unionRankings(existing.ListRankings, incoming.ListRankings)
		conflict := false
		if owner, taken := c.byTitleYear[titleYearKey(existing.Title, existing.Year)]; taken && owner != idx {
			logging.WarnWithContext(c.logger, "keeping title and year that collide with another entry",
				"catalog_merge_conflict",
				logging.String(logging.FieldListID, listID),
				logging.String("movie_id", existing.ID),
				logging.String("other_id", c.movies[owner].ID),
				logging.String("title", existing.Title),
				logging.Int("year", existing.Year),
				logging.String(logging.FieldImpact, "entry keeps its previous title and year"),
			)
			existing.Title = previous.Title
			existing.Year = previous.Year
			conflict = true
		}
		c.replace(idx, existing)
		return mergeUpdated, existing.ID, conflict
	default:
		conflict := directorsDiffer(existing.Director, incoming.Director)
		if conflict {
			logging.WarnWithContext(c.logger, "coalescing records with different directors",
				"catalog_merge_conflict",
				logging.String(logging.FieldListID, listID),
				logging.String("title", existing.Title),
				logging.Int("year", existing.Year),
				logging.String("existing_id", existing.ID),
				logging.String("incoming_id", incoming.ID),
				logging.String("existing_director", existing.Director),
				logging.String("incoming_director", incoming.Director),
				logging.String(logging.FieldImpact, "incoming record folded into existing entry"),
			)
		}
		filled := patchFrom(incoming).backfill(&existing)
		existing.ListRankings = unionRankings(existing.ListRankings, incoming.ListRankings)
		c.replace(idx, existing)
		if len(filled) > 0 {
			c.logger.Debug("backfilled catalog entry",
				logging.String("movie_id", existing.ID),
				logging.Any("fields", filled),
			)
		}
		return mergeCoalesced, existing.ID, conflict
	}
}

func directorsDiffer(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return !strings.EqualFold(a, b)
}
