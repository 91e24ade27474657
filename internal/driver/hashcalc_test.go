package driver

import "testing"

func digest(b byte) Digest {
	var d Digest
	for i := range d {
		d[i] = b
	}
	return d
}

func TestCacheKeyDependsOnSchema(t *testing.T) {
	content := digestOf([]byte("unit"))
	if cacheKey(content, 1) != cacheKey(content, 1) {
		t.Fatal("cache key must be deterministic")
	}
	if cacheKey(content, 1) == cacheKey(content, 2) {
		t.Fatal("schema bump must change the cache key")
	}
	if cacheKey(content, 1) == cacheKey(digestOf([]byte("other")), 1) {
		t.Fatal("content change must change the cache key")
	}
}

func TestDigestText(t *testing.T) {
	d := digest(0xab)
	text, err := d.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var got Digest
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != d {
		t.Fatalf("round trip changed digest: %s", got)
	}
	if err := got.UnmarshalText([]byte("abcd")); err == nil {
		t.Fatal("short digest must be rejected")
	}
	if err := got.UnmarshalText(nil); err != nil || !got.IsZero() {
		t.Fatalf("empty text should reset the digest, got %s, %v", got, err)
	}
}
