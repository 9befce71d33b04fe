package money

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "2000", want: 200000},
		{in: "1999.50", want: 199950},
		{in: "0.01", want: 1},
		{in: " 100 ", want: 10000},
		{in: "1.234", wantErr: true},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Parse(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(200000); got != "2000.00" {
		t.Fatalf("Format = %q", got)
	}
	if got := Format(95); got != "0.95" {
		t.Fatalf("Format = %q", got)
	}
}

func TestPayableAfterFee(t *testing.T) {
	// 1000 rupees with a 5% fee pays out exactly 950.
	if got := PayableAfterFee(100000, 5); got != 95000 {
		t.Fatalf("payable = %d, want 95000", got)
	}
	if got := FeeFor(100000, 5); got != 5000 {
		t.Fatalf("fee = %d, want 5000", got)
	}
	if got := PayableAfterFee(100000, 0); got != 100000 {
		t.Fatalf("zero fee payable = %d", got)
	}
	// Odd paise amounts round the fee to whole paise.
	if got := PayableAfterFee(99999, 5) + FeeFor(99999, 5); got != 99999 {
		t.Fatalf("fee split must preserve the total, got %d", got)
	}
}
