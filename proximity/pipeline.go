package proximity

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"recreo/geo"
)

const (
	DefaultMaxDistanceKm = 5.0
	DefaultLimit         = 10
)

// Query describes one list read. A nil Point means no geo stage; results
// then follow natural store order.
type Query struct {
	Point       *geo.Point
	MaxDistance float64 // metres
	Filters     Filters
	Skip        int
	Limit       int
}

// ListProjection hides embedded comments and the sequential id.
var ListProjection = bson.D{{Key: "comments", Value: 0}, {Key: "id", Value: 0}}

// Pipeline renders q as an aggregation pipeline. $geoNear must be the
// first stage, so filters ride along in its query option.
func Pipeline(q Query) mongo.Pipeline {
	var p mongo.Pipeline
	match := q.Filters.Match()
	if q.Point != nil {
		near := bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: bson.A{q.Point.Lng, q.Point.Lat}},
			}},
			{Key: "distanceField", Value: "distance"},
			{Key: "spherical", Value: true},
			{Key: "maxDistance", Value: q.MaxDistance},
			{Key: "key", Value: "coordinates"},
		}
		if len(match) > 0 {
			near = append(near, bson.E{Key: "query", Value: match})
		}
		p = append(p, bson.D{{Key: "$geoNear", Value: near}})
	} else if len(match) > 0 {
		p = append(p, bson.D{{Key: "$match", Value: match}})
	}
	p = append(p, bson.D{{Key: "$project", Value: ListProjection}})
	if q.Skip > 0 {
		p = append(p, bson.D{{Key: "$skip", Value: int64(q.Skip)}})
	}
	if q.Limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: int64(q.Limit)}})
	}
	return p
}
