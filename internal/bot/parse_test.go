package bot

import "testing"

func TestParseHHMM(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		ok      bool
	}{
		{"08:10", 490, true},
		{"8:5", 485, true},
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{" 14:30 ", 870, true},
		{"25:00", 0, false},
		{"12:60", 0, false},
		{"1230", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseHHMM(c.in)
		if ok != c.ok || got != c.minutes {
			t.Errorf("ParseHHMM(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.minutes, c.ok)
		}
	}
}

func TestParseTotalDuration(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		ok      bool
	}{
		{"TOTAL 3h", 180, true},
		{"total 3 horas", 180, true},
		{"2 horas", 120, true},
		{"1 hora", 60, true},
		{"90", 90, true},
		{"TOTAL 45", 45, true},
		{"3h", 180, true},
		{"08:10", 0, false},
		{"duas horas", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseTotalDuration(c.in)
		if ok != c.ok || got != c.minutes {
			t.Errorf("ParseTotalDuration(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.minutes, c.ok)
		}
	}
}

func TestElapsedMinutes_SameDay(t *testing.T) {
	start, _ := ParseHHMM("08:00")
	end, _ := ParseHHMM("10:30")
	if got := ElapsedMinutes(start, end); got != 150 {
		t.Fatalf("expected 150 minutes, got %d", got)
	}
}

func TestElapsedMinutes_CrossesMidnight(t *testing.T) {
	start, _ := ParseHHMM("23:00")
	end, _ := ParseHHMM("00:30")
	if got := ElapsedMinutes(start, end); got != 90 {
		t.Fatalf("expected 90 minutes across midnight, got %d", got)
	}
}

func TestSafeFloatString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"50,30", "50.30"},
		{"50.30", "50.30"},
		{"0", "0"},
		{"", "SEM INFORMAÇÃO"},
		{"   ", "SEM INFORMAÇÃO"},
		{"uns 50 reais", "uns 50 reais"},
	}
	for _, c := range cases {
		if got := SafeFloatString(c.in); got != c.want {
			t.Errorf("SafeFloatString(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseNameList(t *testing.T) {
	got := ParseNameList("parafuso, graxa, ")
	if len(got) != 2 || got[0] != "parafuso" || got[1] != "graxa" {
		t.Fatalf("unexpected list: %v", got)
	}
	if got := ParseNameList(""); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestParseMaterialsList_NoneAnswers(t *testing.T) {
	for _, in := range []string{"NENHUMA", "nenhum", "não", "NAO", " nenhuma "} {
		if got := ParseMaterialsList(in); len(got) != 0 {
			t.Errorf("ParseMaterialsList(%q) = %v, want empty", in, got)
		}
	}
	got := ParseMaterialsList("retentor 45mm, graxa")
	if len(got) != 2 || got[0] != "retentor 45mm" {
		t.Fatalf("unexpected list: %v", got)
	}
}
