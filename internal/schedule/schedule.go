// Package schedule maps match timestamps onto the season calendar.
package schedule

import (
	"fmt"
	"strconv"
	"time"
)

// Raw replay timestamps count 100ns ticks since 1601-01-01 UTC.
const (
	ticksPerSecond = 10 * 1000 * 1000
	// EpochDeltaSeconds is the gap between the 1601 epoch and the Unix epoch.
	EpochDeltaSeconds = 11644473600
	// TimezoneShift moves decoded times onto league time (UTC-7).
	TimezoneShift = -7 * time.Hour
)

// Slot names.
const (
	Preseason = "Preseason"
	weekSlots = 8 // anchors 1..8 are Week1..Week8
)

// PlayoffSlots names the anchors after the regular weeks, in order.
var PlayoffSlots = []string{"Round1", "GapWeek", "Round2", "Round3", "Round4", "Round5"}

// MaxSlots is the largest calendar that has a name for every anchor.
var MaxSlots = 1 + weekSlots + len(PlayoffSlots)

// Calendar is an ordered list of anchor times, one per slot.
type Calendar struct {
	anchors []time.Time
}

// NewCalendar builds count anchors starting at start, stride apart.
func NewCalendar(start time.Time, stride time.Duration, count int) (*Calendar, error) {
	if count < 1 || count > MaxSlots {
		return nil, fmt.Errorf("slot count %d out of range 1..%d", count, MaxSlots)
	}
	if stride <= 0 {
		return nil, fmt.Errorf("stride must be positive, got %s", stride)
	}
	anchors := make([]time.Time, count)
	for i := range anchors {
		anchors[i] = start.Add(stride * time.Duration(i))
	}
	return &Calendar{anchors: anchors}, nil
}

// ReferenceStart is the preseason anchor of the reference season.
var ReferenceStart = time.Date(2019, time.September, 7, 12, 0, 0, 0, time.UTC)

// Reference returns the reference season: 14 weekly slots from ReferenceStart.
func Reference() *Calendar {
	c, _ := NewCalendar(ReferenceStart, 7*24*time.Hour, 14)
	return c
}

// Anchors returns a copy of the anchor times.
func (c *Calendar) Anchors() []time.Time {
	return append([]time.Time(nil), c.anchors...)
}

// Slots returns every slot name of the calendar in order.
func (c *Calendar) Slots() []string {
	out := make([]string, len(c.anchors))
	for i := range c.anchors {
		out[i] = SlotName(i)
	}
	return out
}

// Index returns the index of the anchor nearest to t. Ties go to the earlier anchor.
func (c *Calendar) Index(t time.Time) int {
	best := 0
	var bestSec, bestNsec int64
	for i, a := range c.anchors {
		sec, nsec := distance(t, a)
		if i == 0 || sec < bestSec || (sec == bestSec && nsec < bestNsec) {
			best, bestSec, bestNsec = i, sec, nsec
		}
	}
	return best
}

// distance returns |t-a| as whole seconds plus nanoseconds in [0, 1e9).
// time.Duration saturates past ~292 years, so the difference is kept split.
func distance(t, a time.Time) (sec, nsec int64) {
	sec = t.Unix() - a.Unix()
	nsec = int64(t.Nanosecond() - a.Nanosecond())
	if nsec < 0 {
		sec--
		nsec += 1e9
	}
	if sec < 0 {
		if nsec > 0 {
			return -sec - 1, 1e9 - nsec
		}
		return -sec, 0
	}
	return sec, nsec
}

// Classify returns the slot name of the anchor nearest to t.
func (c *Calendar) Classify(t time.Time) string {
	return SlotName(c.Index(t))
}

// ClassifyRaw converts a raw replay timestamp and classifies it.
func (c *Calendar) ClassifyRaw(raw int64) string {
	return c.Classify(FromRaw(raw))
}

// SlotName names anchor index i.
func SlotName(i int) string {
	switch {
	case i <= 0:
		return Preseason
	case i <= weekSlots:
		return "Week" + strconv.Itoa(i)
	case i-weekSlots-1 < len(PlayoffSlots):
		return PlayoffSlots[i-weekSlots-1]
	default:
		return "Slot" + strconv.Itoa(i)
	}
}

// FromRaw converts 100ns ticks since 1601 into league time, expressed in the
// UTC location so that it compares directly against calendar anchors.
func FromRaw(raw int64) time.Time {
	sec := raw/ticksPerSecond - EpochDeltaSeconds
	nsec := (raw % ticksPerSecond) * 100
	return time.Unix(sec, nsec).UTC().Add(TimezoneShift)
}

// ToRaw is the inverse of FromRaw.
func ToRaw(t time.Time) int64 {
	t = t.Add(-TimezoneShift)
	return (t.Unix()+EpochDeltaSeconds)*ticksPerSecond + int64(t.Nanosecond()/100)
}
