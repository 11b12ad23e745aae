package recipes

import (
	"testing"

	graph "github.com/diS3e/computation-graph"
	"github.com/stretchr/testify/require"
)

func TestYandexMapsGroupsByWeekdayAndHour(t *testing.T) {
	start := graph.Point{37.8487, 55.7385}
	end := graph.Point{37.8490, 55.7383}
	distRows, err := graph.Haversine("start", "end", "d")(graph.Row{"start": start, "end": end})
	require.NoError(t, err)
	dist := distRows[0]["d"].(float64)

	times := []graph.Row{
		// Friday, hour 8, two rides averaging to dist/0.5 and dist/1.0.
		{"ride_id": int64(1), "enter": "20240105T080000.000000", "leave": "20240105T083000.000000"},
		{"ride_id": int64(2), "enter": "20240105T081500.000000", "leave": "20240105T091500.000000"},
		// Tuesday, hour 14, one ride.
		{"ride_id": int64(3), "enter": "20240102T140000.000000", "leave": "20240102T141500.000000"},
	}
	lengths := []graph.Row{
		{"ride_id": int64(1), "start": start, "end": end},
		{"ride_id": int64(2), "start": start, "end": end},
		{"ride_id": int64(3), "start": start, "end": end},
	}

	timesGraph := graph.FromIter("times")
	lengthsGraph := graph.FromIter("lengths")
	g := YandexMaps(timesGraph, lengthsGraph, YandexMapsConfig{})

	stream, err := g.Run(graph.Inputs{
		"times":   func() graph.Stream { return rowsStream(times) },
		"lengths": func() graph.Stream { return rowsStream(lengths) },
	})
	require.NoError(t, err)
	out, err := drainAll(stream)
	require.NoError(t, err)
	require.Len(t, out, 2)

	byKey := map[[2]any]float64{}
	for _, r := range out {
		byKey[[2]any{r["weekday"], r["hour"]}] = r["speed_kmh"].(float64)
	}

	friSpeed1 := dist / 0.5
	friSpeed2 := dist / 1.0
	require.InDelta(t, (friSpeed1+friSpeed2)/2, byKey[[2]any{"Fri", int64(8)}], 1e-9)
	require.InDelta(t, dist/0.25, byKey[[2]any{"Tue", int64(14)}], 1e-9)
}

// TestYandexMapsReferenceCorpus exercises the recipe against the
// eight rides of the reference corpus and the two edges they ride
// on (the corpus's other length rows match no ride and are left
// out), whose timestamps use the
// compact "20171020T112238.723000" layout rather than RFC3339, and
// reproduces its eight documented (weekday, hour, speed) results.
func TestYandexMapsReferenceCorpus(t *testing.T) {
	lengths := []graph.Row{
		{"edge_id": int64(8414926848168493057), "start": graph.Point{37.84870228730142, 55.73853974696249}, "end": graph.Point{37.8490418381989, 55.73832445777953}},
		{"edge_id": int64(5342768494149337085), "start": graph.Point{37.524768467992544, 55.88785375468433}, "end": graph.Point{37.52415172755718, 55.88807155843824}},
	}
	times := []graph.Row{
		{"edge_id": int64(8414926848168493057), "enter": "20171020T112237.427000", "leave": "20171020T112238.723000"},
		{"edge_id": int64(8414926848168493057), "enter": "20171011T145551.957000", "leave": "20171011T145553.040000"},
		{"edge_id": int64(8414926848168493057), "enter": "20171020T090547.463000", "leave": "20171020T090548.939000"},
		{"edge_id": int64(8414926848168493057), "enter": "20171024T144059.102000", "leave": "20171024T144101.879000"},
		{"edge_id": int64(5342768494149337085), "enter": "20171022T131820.842000", "leave": "20171022T131828.330000"},
		{"edge_id": int64(5342768494149337085), "enter": "20171014T134825.215000", "leave": "20171014T134826.836000"},
		{"edge_id": int64(5342768494149337085), "enter": "20171010T060608.344000", "leave": "20171010T060609.897000"},
		{"edge_id": int64(5342768494149337085), "enter": "20171027T082557.571000", "leave": "20171027T082600.201000"},
	}

	cfg := YandexMapsConfig{RideIDCol: "edge_id"}
	timesGraph := graph.FromIter("times")
	lengthsGraph := graph.FromIter("lengths")
	g := YandexMaps(timesGraph, lengthsGraph, cfg)

	stream, err := g.Run(graph.Inputs{
		"times":   func() graph.Stream { return rowsStream(times) },
		"lengths": func() graph.Stream { return rowsStream(lengths) },
	})
	require.NoError(t, err)
	out, err := drainAll(stream)
	require.NoError(t, err)

	byKey := map[[2]any]float64{}
	for _, r := range out {
		byKey[[2]any{r["weekday"], r["hour"]}] = r["speed_kmh"].(float64)
	}

	require.InDelta(t, 88.9552, byKey[[2]any{"Fri", int64(11)}], 0.001)
	require.InDelta(t, 106.4505, byKey[[2]any{"Wed", int64(14)}], 0.001)
	require.InDelta(t, 78.1070, byKey[[2]any{"Fri", int64(9)}], 0.001)
	require.InDelta(t, 41.5145, byKey[[2]any{"Tue", int64(14)}], 0.001)
	require.InDelta(t, 21.8577, byKey[[2]any{"Sun", int64(13)}], 0.001)
	require.InDelta(t, 100.9690, byKey[[2]any{"Sat", int64(13)}], 0.001)
	require.InDelta(t, 105.3901, byKey[[2]any{"Tue", int64(6)}], 0.001)
	require.InDelta(t, 62.2322, byKey[[2]any{"Fri", int64(8)}], 0.001)
	require.Len(t, out, 8)
}
