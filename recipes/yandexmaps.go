package recipes

import (
	"time"

	graph "github.com/diS3e/computation-graph"
)

// YandexMapsConfig names the columns YandexMaps reads and writes.
// Zero-valued fields fall back to the defaults below.
type YandexMapsConfig struct {
	RideIDCol   string // join key shared by the time and length inputs. Default "ride_id".
	EnterCol    string // time input column: ride start timestamp. Default "enter".
	LeaveCol    string // time input column: ride end timestamp. Default "leave".
	StartCol    string // length input column: ride start Point. Default "start".
	EndCol      string // length input column: ride end Point. Default "end".
	WeekdayCol  string // output column: three-letter weekday abbreviation. Default "weekday".
	HourCol     string // output column: hour of day, 0-23. Default "hour".
	SpeedKmhCol string // output column: average speed in km/h. Default "speed_kmh".
	TimeLayout  string // time.Parse layout for EnterCol/LeaveCol. Default "20060102T150405.000000".
}

func (c YandexMapsConfig) normalized() YandexMapsConfig {
	if c.RideIDCol == "" {
		c.RideIDCol = "ride_id"
	}
	if c.EnterCol == "" {
		c.EnterCol = "enter"
	}
	if c.LeaveCol == "" {
		c.LeaveCol = "leave"
	}
	if c.StartCol == "" {
		c.StartCol = "start"
	}
	if c.EndCol == "" {
		c.EndCol = "end"
	}
	if c.WeekdayCol == "" {
		c.WeekdayCol = "weekday"
	}
	if c.HourCol == "" {
		c.HourCol = "hour"
	}
	if c.SpeedKmhCol == "" {
		c.SpeedKmhCol = "speed_kmh"
	}
	if c.TimeLayout == "" {
		c.TimeLayout = "20060102T150405.000000"
	}
	return c
}

// YandexMaps builds the yandex_maps recipe by joining times
// (rows carrying cfg.RideIDCol, cfg.EnterCol, cfg.LeaveCol) against
// lengths (rows carrying cfg.RideIDCol, cfg.StartCol, cfg.EndCol) on
// the ride id, computing each ride's Haversine segment length and
// elapsed time, and averaging the resulting speed in km/h grouped by
// (weekday, hour) of the enter time. Output fields (weekday, hour,
// cfg.SpeedKmhCol).
func YandexMaps(times, lengths graph.Graph, cfg YandexMapsConfig) graph.Graph {
	cfg = cfg.normalized()

	withDistance := lengths.Map(graph.Haversine(cfg.StartCol, cfg.EndCol, "distance_km"))

	joined := times.
		Sort([]string{cfg.RideIDCol}).
		Join(withDistance.Sort([]string{cfg.RideIDCol}), graph.InnerJoiner(), []string{cfg.RideIDCol})

	speeds := joined.
		Map(speedOp(cfg)).
		Map(graph.Filter(positiveDuration)).
		Map(graph.Project([]string{cfg.WeekdayCol, cfg.HourCol, cfg.SpeedKmhCol}))

	return speeds.
		Sort([]string{cfg.WeekdayCol, cfg.HourCol}).
		Reduce([]string{cfg.WeekdayCol, cfg.HourCol}, graph.Mean(cfg.SpeedKmhCol, cfg.SpeedKmhCol)).
		Sort([]string{cfg.WeekdayCol, cfg.HourCol})
}

// speedOp derives weekday, hour, and speed_kmh from a joined
// time+length row. Go's time.Weekday.String() already yields the
// three-letter abbreviation ("Mon".."Sun") as its first three runes.
// Enter/leave timestamps arrive in the compact, zoneless layout the
// reference corpus uses (e.g. "20171020T112238.723000"), not RFC3339.
func speedOp(cfg YandexMapsConfig) graph.MapFunc {
	return func(r graph.Row) ([]graph.Row, error) {
		enterV, err := r.MustGet("speed", cfg.EnterCol)
		if err != nil {
			return nil, err
		}
		leaveV, err := r.MustGet("speed", cfg.LeaveCol)
		if err != nil {
			return nil, err
		}
		distV, err := r.MustGet("speed", "distance_km")
		if err != nil {
			return nil, err
		}

		enter, ok := enterV.(string)
		if !ok {
			return nil, graph.ErrField
		}
		leave, ok := leaveV.(string)
		if !ok {
			return nil, graph.ErrField
		}
		dist, err := asFloat(distV)
		if err != nil {
			return nil, err
		}

		enterT, err := time.Parse(cfg.TimeLayout, enter)
		if err != nil {
			return nil, graph.ErrParse
		}
		leaveT, err := time.Parse(cfg.TimeLayout, leave)
		if err != nil {
			return nil, graph.ErrParse
		}

		hours := leaveT.Sub(enterT).Hours()
		row := graph.Row{
			cfg.WeekdayCol:  enterT.Weekday().String()[:3],
			cfg.HourCol:     int64(enterT.Hour()),
			"duration_hrs":  hours,
			cfg.SpeedKmhCol: 0.0,
		}
		if hours > 0 {
			row[cfg.SpeedKmhCol] = dist / hours
		}
		return []graph.Row{r.Merge(row)}, nil
	}
}

// positiveDuration drops rides whose enter/leave timestamps produced
// a non-positive elapsed time (malformed or zero-length records),
// which would otherwise contribute an infinite or undefined speed.
func positiveDuration(r graph.Row) (bool, error) {
	v, err := r.MustGet("positiveDuration", "duration_hrs")
	if err != nil {
		return false, err
	}
	h, err := asFloat(v)
	if err != nil {
		return false, err
	}
	return h > 0, nil
}
