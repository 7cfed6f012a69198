package entry

import "testing"

func TestRecordRoundTrip(t *testing.T) {
	h := Header{Tenant: "my-plugin", Severity: 3, TsMs: 1712000000123}
	raw, err := EncodeRecord(h, "cache warm failed")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, msg, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != h {
		t.Fatalf("header mismatch: %+v vs %+v", got, h)
	}
	if msg != "cache warm failed" {
		t.Fatalf("message mismatch: %q", msg)
	}
}

func TestRecordEmptyMessage(t *testing.T) {
	raw, err := EncodeRecord(Header{Tenant: "t"}, "")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, msg, err := DecodeRecord(raw); err != nil || msg != "" {
		t.Fatalf("decode: msg=%q err=%v", msg, err)
	}
}

func TestRecordCorruption(t *testing.T) {
	raw, err := EncodeRecord(Header{Tenant: "t", Severity: 1}, "hello")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw[len(raw)/2] ^= 0xff
	if _, _, err := DecodeRecord(raw); err != ErrCorruptRecord {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
	if _, _, err := DecodeRecord(raw[:3]); err != ErrCorruptRecord {
		t.Fatalf("expected ErrCorruptRecord on truncation, got %v", err)
	}
}
