package proximity

import (
	"net/url"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"recreo/errs"
	"recreo/models"
)

// Attributed is anything exposing filterable attribute values.
type Attributed interface {
	Attr(field string) []string
}

// Predicate is one typed condition. It renders to Mongo clauses and can be
// evaluated in memory against an entity.
type Predicate interface {
	Clauses() bson.D
	Matches(v Attributed) bool
}

type equals struct {
	field string
	value string
}

// Equals matches documents whose field equals value, or whose array field
// contains value.
func Equals(field, value string) Predicate {
	return equals{field: field, value: value}
}

func (p equals) Clauses() bson.D {
	return bson.D{{Key: p.field, Value: p.value}}
}

func (p equals) Matches(v Attributed) bool {
	return slices.Contains(v.Attr(p.field), p.value)
}

type scheduled interface {
	Schedule() (models.Schedule, bool)
}

type dateRange struct {
	start time.Time
	end   time.Time
}

// Within matches entities that start no earlier than start and end no
// later than end.
func Within(start, end time.Time) Predicate {
	return dateRange{start: start, end: end}
}

func (p dateRange) Clauses() bson.D {
	return bson.D{
		{Key: "startDate", Value: bson.D{{Key: "$gte", Value: p.start}}},
		{Key: "endDate", Value: bson.D{{Key: "$lte", Value: p.end}}},
	}
}

func (p dateRange) Matches(v Attributed) bool {
	s, ok := v.(scheduled)
	if !ok {
		return false
	}
	sch, ok := s.Schedule()
	if !ok {
		return false
	}
	return !sch.Start.Before(p.start) && !sch.End.After(p.end)
}

// Filters is a conjunction of predicates.
type Filters []Predicate

// Match renders the conjunction as a single $match body.
func (f Filters) Match() bson.D {
	out := bson.D{}
	for _, p := range f {
		out = append(out, p.Clauses()...)
	}
	return out
}

func (f Filters) Matches(v Attributed) bool {
	for _, p := range f {
		if !p.Matches(v) {
			return false
		}
	}
	return true
}

// AllowList names the query keys a collection may be filtered by.
// Anything else in the query string is ignored.
type AllowList struct {
	Fields    []string
	DateRange bool
}

var (
	LocationFields = AllowList{Fields: []string{"category", "type", "sports"}}
	EventFields    = AllowList{Fields: []string{"category", "type", "sports", "interval"}, DateRange: true}
	SportFields    = AllowList{Fields: []string{"category"}}
)

// InvalidDateRangeMsg is returned when startDate is after endDate.
const InvalidDateRangeMsg = "Invalid date range: startDate is after endDate."

// BuildFilters maps allowed query keys onto predicates. The date range is
// only applied when both startDate and endDate are given.
func BuildFilters(q url.Values, allow AllowList) (Filters, error) {
	var f Filters
	for _, field := range allow.Fields {
		if v := q.Get(field); v != "" {
			f = append(f, Equals(field, v))
		}
	}
	if !allow.DateRange {
		return f, nil
	}
	rawStart, rawEnd := q.Get("startDate"), q.Get("endDate")
	if rawStart == "" || rawEnd == "" {
		return f, nil
	}
	start, err := ParseDate(rawStart)
	if err != nil {
		return nil, errs.Validation("Query parameter 'startDate' is not a valid date.")
	}
	end, err := ParseDate(rawEnd)
	if err != nil {
		return nil, errs.Validation("Query parameter 'endDate' is not a valid date.")
	}
	if start.After(end) {
		return nil, errs.Validation(InvalidDateRangeMsg)
	}
	return append(f, Within(start, end)), nil
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps and plain dates (UTC).
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		t, perr := time.Parse(layout, s)
		if perr == nil {
			return t.UTC(), nil
		}
		err = perr
	}
	return time.Time{}, err
}
