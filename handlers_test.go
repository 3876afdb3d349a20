package kmlstream

import "testing"

func TestDispatchTextTimeSpan(t *testing.T) {
	a := newAssembler(ParseOptions{})
	feed(t, a,
		start("Placemark", nil),
		start("TimeSpan", nil),
		start("begin", nil), chars("2020-01-01"), end("begin"),
		start("end", nil), chars("2020-02-01"), end("end"),
		end("TimeSpan"),
		end("Placemark"),
	)
	out := a.finalFlush()
	if out[0].Attrs["timespan_begin"] != "2020-01-01" {
		t.Errorf("timespan_begin = %q", out[0].Attrs["timespan_begin"])
	}
	if out[0].Attrs["timespan_end"] != "2020-02-01" {
		t.Errorf("timespan_end = %q", out[0].Attrs["timespan_end"])
	}
}

func TestDispatchTextNoMatchIsNoop(t *testing.T) {
	a := newAssembler(ParseOptions{})
	feed(t, a,
		start("Placemark", nil),
		start("styleUrl", nil), chars("#x"), end("styleUrl"),
		end("Placemark"),
	)
	out := a.finalFlush()
	if len(out[0].Attrs) != 0 {
		t.Errorf("attrs = %v, want empty (styleUrl is not a recognized text pattern)", out[0].Attrs)
	}
}
