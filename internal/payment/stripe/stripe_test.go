package stripe

import (
	"errors"
	"testing"
)

func TestToMinorAmount(t *testing.T) {
	cases := []struct {
		name     string
		amount   string
		currency string
		want     int64
		wantErr  bool
	}{
		{name: "two decimal currency", amount: "67.50", currency: "USD", want: 6750},
		{name: "integer amount", amount: "40", currency: "usd", want: 4000},
		{name: "zero decimal currency", amount: "1200", currency: "JPY", want: 1200},
		{name: "sub cent rejected", amount: "10.005", currency: "USD", wantErr: true},
		{name: "sub unit rejected for zero decimal", amount: "1200.5", currency: "JPY", wantErr: true},
		{name: "zero rejected", amount: "0", currency: "USD", wantErr: true},
		{name: "negative rejected", amount: "-1.00", currency: "USD", wantErr: true},
		{name: "garbage rejected", amount: "abc", currency: "USD", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := toMinorAmount(tc.amount, tc.currency)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("want error got minor=%d", got)
				}
				if !errors.Is(err, ErrConfigInvalid) {
					t.Fatalf("want ErrConfigInvalid got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("minor want %d got %d", tc.want, got)
			}
		})
	}
}

func TestFromMinorAmount(t *testing.T) {
	if got := fromMinorAmount(6750, "USD"); got != "67.50" {
		t.Fatalf("usd want 67.50 got %s", got)
	}
	if got := fromMinorAmount(1200, "JPY"); got != "1200" {
		t.Fatalf("jpy want 1200 got %s", got)
	}
}
