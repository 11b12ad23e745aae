// Command yandexmaps runs the yandex_maps recipe over a
// time-records input and a length-records input, both row-literal
// files, joined on ride id.
package main

import (
	"flag"
	"log"

	"github.com/diS3e/computation-graph/internal/cliutil"
	"github.com/diS3e/computation-graph/recipes"
)

func main() {
	var (
		inputTime   = flag.String("input-time", "", "time-records input file path, or comma-separated paths")
		inputLength = flag.String("input-length", "", "length-records input file path, or comma-separated paths")
		output      = flag.String("output", "", "output file path (default stdout)")
		workers     = flag.Int("workers", 4, "concurrent readers when an -input flag names more than one file")
		rideIDCol   = flag.String("ride-id-col", "ride_id", "join key shared by both inputs")
		enterCol    = flag.String("enter-col", "enter", "time input column: ride start timestamp")
		leaveCol    = flag.String("leave-col", "leave", "time input column: ride end timestamp")
		startCol    = flag.String("start-col", "start", "length input column: ride start point")
		endCol      = flag.String("end-col", "end", "length input column: ride end point")
		weekdayCol  = flag.String("weekday-col", "weekday", "output column: weekday abbreviation")
		hourCol     = flag.String("hour-col", "hour", "output column: hour of day")
		speedCol    = flag.String("speed-col", "speed_kmh", "output column: average speed in km/h")
	)
	flag.Parse()

	if *inputTime == "" || *inputLength == "" {
		log.Fatal("yandexmaps: -input-time and -input-length are both required")
	}

	times := cliutil.SourceGraph(*inputTime, *workers)
	lengths := cliutil.SourceGraph(*inputLength, *workers)

	result := recipes.YandexMaps(times, lengths, recipes.YandexMapsConfig{
		RideIDCol:   *rideIDCol,
		EnterCol:    *enterCol,
		LeaveCol:    *leaveCol,
		StartCol:    *startCol,
		EndCol:      *endCol,
		WeekdayCol:  *weekdayCol,
		HourCol:     *hourCol,
		SpeedKmhCol: *speedCol,
	})

	if err := cliutil.RunAndWrite(result, *output); err != nil {
		log.Fatalf("yandexmaps: %v", err)
	}
}
