package service

import (
	"sync"
	"testing"
)

func TestCanonicalName(t *testing.T) {
	s := New(nil, nil)

	cases := []struct {
		in   string
		want string
	}{
		{"joão  da silva", "João Da Silva"},
		{"MARCOS", "Marcos"},
		{"  ana ", "Ana"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := s.CanonicalName(c.in); got != c.want {
			t.Errorf("CanonicalName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCanonicalName_ConcurrentCalls(t *testing.T) {
	s := New(nil, nil)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if got := s.CanonicalName("joão   da silva pereira"); got != "João Da Silva Pereira" {
					errs <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	if got, ok := <-errs; ok {
		t.Fatalf("concurrent CanonicalName = %q, want %q", got, "João Da Silva Pereira")
	}
}

func TestOrEmpty(t *testing.T) {
	if got := orEmpty("  "); got != NoInformation {
		t.Fatalf("blank should map to sentinel, got %q", got)
	}
	if got := orEmpty("Bomba 3"); got != "Bomba 3" {
		t.Fatalf("non-blank must pass through, got %q", got)
	}
}
