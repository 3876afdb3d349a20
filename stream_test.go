package kmlstream

import (
	"context"
	"strings"
	"testing"
	"time"
)

const sampleKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <name>P1</name>
      <Point><coordinates>-122.0,37.0</coordinates></Point>
    </Placemark>
    <Placemark>
      <name>P2</name>
      <Point><coordinates>-121.0,38.0</coordinates></Point>
    </Placemark>
  </Document>
</kml>`

func TestStreamYieldsPlacemarksInDocumentOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []Placemark
	for pm, err := range Stream(ctx, strings.NewReader(sampleKML), ParseOptions{}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, pm)
	}

	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].Attrs["name"] != "P1" || got[1].Attrs["name"] != "P2" {
		t.Errorf("names = %q, %q, want P1, P2", got[0].Attrs["name"], got[1].Attrs["name"])
	}
}

func TestStreamEmptyDocument(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	doc := `<?xml version="1.0"?><kml xmlns="http://www.opengis.net/kml/2.2"></kml>`
	var count int
	for _, err := range Stream(ctx, strings.NewReader(doc), ParseOptions{}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		count++
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestStreamMalformedDocumentReportsError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// kml element never closes.
	doc := `<?xml version="1.0"?><kml xmlns="http://www.opengis.net/kml/2.2"><Placemark>`
	var sawErr bool
	for _, err := range Stream(ctx, strings.NewReader(doc), ParseOptions{}) {
		if err != nil {
			sawErr = true
		}
	}
	if !sawErr {
		t.Error("expected a terminal error for a document that never closes its kml element")
	}
}

func TestEventsAckBackpressure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, wait := Events(ctx, strings.NewReader(sampleKML), ParseOptions{BatchSize: 1})

	var batches [][]Placemark
	for batch := range p.Batches() {
		batches = append(batches, batch.Placemarks)
		if err := p.Ack(ctx); err != nil {
			t.Fatalf("ack failed: %v", err)
		}
	}
	if err := wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// batch_size=1 only forces a flush once emit's length exceeds 1, so
	// two placemarks produce a single mid-stream batch of both; nothing
	// is left for the final flush.
	if len(batches) != 1 {
		t.Fatalf("len(batches) = %d, want 1", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Errorf("batch size = %d, want 2", len(batches[0]))
	}
}

func TestEventsCancellationUnblocksFlush(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p, wait := Events(ctx, strings.NewReader(sampleKML), ParseOptions{BatchSize: 1})

	// Receive the first batch but never ack it; cancel instead.
	<-p.Batches()
	cancel()

	if err := wait(); err == nil {
		t.Error("expected cancellation to surface as an error from wait()")
	}
}
