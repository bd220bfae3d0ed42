package services

import (
	"sort"

	"github.com/okrahel/venue_flow/internal/core/domain"
)

// Projections are pure functions of a single snapshot. They are re-run from
// scratch on every snapshot delivery and never accumulate state across calls.

// BookingTab names the dashboard buckets bookings are partitioned into.
type BookingTab string

const (
	TabPending BookingTab = "pending"
	TabToday   BookingTab = "today"
	TabSeated  BookingTab = "seated"
	TabHistory BookingTab = "history"
	TabAll     BookingTab = "all"
)

// UpNext orders a queue snapshot for the now-playing surface: any playing
// item first, then queued items FIFO by creation time. Played and skipped
// items are excluded. Equal timestamps keep snapshot order, which is the
// store's insertion order.
func UpNext(snapshot []domain.Entity) []domain.Entity {
	var playing, queued []domain.Entity
	for _, e := range snapshot {
		switch e.Status {
		case domain.QueuePlaying:
			playing = append(playing, e)
		case domain.QueueQueued:
			queued = append(queued, e)
		}
	}
	sortByCreatedAsc(playing)
	sortByCreatedAsc(queued)
	return append(playing, queued...)
}

// QueueHistory lists played and skipped items, most recently touched first.
func QueueHistory(snapshot []domain.Entity) []domain.Entity {
	var out []domain.Entity
	for _, e := range snapshot {
		if e.Status == domain.QueuePlayed || e.Status == domain.QueueSkipped {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// BookingsForTab filters a booking snapshot into one dashboard tab. The
// today tab matches on exact string equality of the payload date against the
// given YYYY-MM-DD value; callers format the date, no timezone math happens
// here.
func BookingsForTab(snapshot []domain.Entity, tab BookingTab, date string) []domain.Entity {
	var out []domain.Entity
	for _, e := range snapshot {
		switch tab {
		case TabPending:
			if e.Status == domain.BookingPending {
				out = append(out, e)
			}
		case TabToday:
			if (e.Status == domain.BookingConfirmed || e.Status == domain.BookingSeated) &&
				e.PayloadString(domain.FieldDate) == date {
				out = append(out, e)
			}
		case TabSeated:
			if e.Status == domain.BookingSeated {
				out = append(out, e)
			}
		case TabHistory:
			if e.IsTerminal() {
				out = append(out, e)
			}
		default:
			out = append(out, e)
		}
	}
	sortByCreatedAsc(out)
	return out
}

// PartitionByStatus buckets a snapshot by status, keeping per-bucket FIFO
// order. Used for the courier and staff application tab views.
func PartitionByStatus(snapshot []domain.Entity) map[domain.Status][]domain.Entity {
	out := make(map[domain.Status][]domain.Entity)
	for _, e := range snapshot {
		out[e.Status] = append(out[e.Status], e)
	}
	for _, bucket := range out {
		sortByCreatedAsc(bucket)
	}
	return out
}

// ActiveAuctionsFirst orders an auction snapshot for the storefront: active
// items by soonest end, then upcoming by soonest start, then closed items.
func ActiveAuctionsFirst(snapshot []domain.Entity) []domain.Entity {
	var active, upcoming, closed []domain.Entity
	for _, e := range snapshot {
		switch e.Status {
		case domain.AuctionActive:
			active = append(active, e)
		case domain.AuctionUpcoming:
			upcoming = append(upcoming, e)
		default:
			closed = append(closed, e)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].PayloadString(domain.FieldEndsAt) < active[j].PayloadString(domain.FieldEndsAt)
	})
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].PayloadString(domain.FieldStartsAt) < upcoming[j].PayloadString(domain.FieldStartsAt)
	})
	out := append(active, upcoming...)
	return append(out, closed...)
}

func sortByCreatedAsc(entities []domain.Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].CreatedAt.Before(entities[j].CreatedAt)
	})
}
