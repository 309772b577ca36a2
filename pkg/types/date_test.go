package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDateAcceptsCanonicalForm(t *testing.T) {
	date, err := ParseDate("2023-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if date.String() != "2023-01-31" {
		t.Fatalf("unexpected date %s", date)
	}
}

func TestParseDateRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{
		"2023-13-01", // month out of range
		"2023-02-30", // day out of range
		"2023-1-1",   // missing zero padding
		"01-01-2023",
		"invalid",
		"",
	} {
		if _, err := ParseDate(raw); err == nil {
			t.Fatalf("expected %q to fail parsing", raw)
		}
	}
}

func TestDateOrdering(t *testing.T) {
	jan := NewDate(2023, time.January, 1)
	feb := NewDate(2023, time.February, 1)

	if !jan.Before(feb) || feb.Before(jan) {
		t.Fatal("expected january before february")
	}
	if !jan.Equal(NewDate(2023, time.January, 1)) {
		t.Fatal("expected equal dates to compare equal")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	type payload struct {
		StartDate Date `json:"start_date"`
	}
	var decoded payload
	if err := json.Unmarshal([]byte(`{"start_date":"2023-03-15"}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"start_date":"2023-03-15"}` {
		t.Fatalf("unexpected json %s", out)
	}
}

func TestDateScanHandlesDriverRepresentations(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2023, time.June, 2, 17, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	if d.String() != "2023-06-02" {
		t.Fatalf("unexpected date %s", d)
	}

	if err := d.Scan("2023-06-03"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if d.String() != "2023-06-03" {
		t.Fatalf("unexpected date %s", d)
	}

	if err := d.Scan("2023-06-04T00:00:00Z"); err != nil {
		t.Fatalf("scan rfc3339: %v", err)
	}
	if d.String() != "2023-06-04" {
		t.Fatalf("unexpected date %s", d)
	}
}
