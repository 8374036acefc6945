package sss

import "testing"

func TestSampleStoreAddAssignsHandles(t *testing.T) {
	var st SampleStore
	h1, err := st.Add(Sample{Name: "one", Data: []byte{0, 1, 2}}, false)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	h2, err := st.Add(Sample{Name: "two", Data: []byte{3, 4, 5}}, false)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct handles, got %d and %d", h1, h2)
	}

	if got := st.Get(h1).Name; got != "one" {
		t.Errorf("Get(%d).Name = %q, want %q", h1, got, "one")
	}
}

func TestSampleStoreExhaustion(t *testing.T) {
	var st SampleStore
	for i := 0; i < MaxSamples; i++ {
		if _, err := st.Add(Sample{Data: []byte{0}}, false); err != nil {
			t.Fatalf("Add #%d: %v", i, err)
		}
	}
	if _, err := st.Add(Sample{Data: []byte{0}}, false); err != ErrNoHandles {
		t.Fatalf("Add past capacity: got %v, want ErrNoHandles", err)
	}
}

func TestSampleStoreDeleteFreesHandle(t *testing.T) {
	var st SampleStore
	h, _ := st.Add(Sample{Data: []byte{0}}, false)
	if err := st.Delete(h); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if st.Get(h) != nil {
		t.Error("Get after Delete should return nil")
	}
	if err := st.Delete(h); err != ErrBadParam {
		t.Errorf("double Delete: got %v, want ErrBadParam", err)
	}
}

func TestSampleStoreGetOutOfRange(t *testing.T) {
	var st SampleStore
	if st.Get(-1) != nil {
		t.Error("Get(-1) should return nil")
	}
	if st.Get(MaxSamples) != nil {
		t.Error("Get(MaxSamples) should return nil")
	}
}

func TestSampleStoreAddCenterRebiasesUnsignedData(t *testing.T) {
	var st SampleStore
	h, err := st.Add(Sample{Data: []byte{0, 128, 255}}, true)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	got := st.Get(h).Data
	want := []byte{0x80, 0, 127} // 0x80 is -128 as a signed byte
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: got %d, want %d", i, int8(got[i]), int8(want[i]))
		}
	}
}

func TestSampleStoreAddWithoutCenterPassesThrough(t *testing.T) {
	var st SampleStore
	h, _ := st.Add(Sample{Data: []byte{10, 20, 30}}, false)
	got := st.Get(h).Data
	want := []byte{10, 20, 30}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: got %d, want %d", i, got[i], want[i])
		}
	}
}
