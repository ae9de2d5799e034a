package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmountToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "whole pesos", input: "12345", want: 1234500},
		{name: "two decimals", input: "12345.50", want: 1234550},
		{name: "comma separator", input: "99,90", want: 9990},
		{name: "one decimal", input: "10.5", want: 1050},
		{name: "third decimal rounds up", input: "1.005", want: 101},
		{name: "third decimal rounds down", input: "1.004", want: 100},
		{name: "leading dot", input: ".50", want: 50},
		{name: "surrounding whitespace", input: "  42  ", want: 4200},
		{name: "empty", input: "", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-10", wantErr: true},
		{name: "plus sign", input: "+10", wantErr: true},
		{name: "letters", input: "12a", wantErr: true},
		{name: "two separators", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmountToCents(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmountToCents(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAmountToCents(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		name  string
		money Money
		want  string
	}{
		{name: "whole pesos", money: Pesos(12345), want: "$12345"},
		{name: "with cents", money: Money{Cents: 1234550}, want: "$12345.50"},
		{name: "zero", money: Money{}, want: "$0"},
		{name: "negative", money: Money{Cents: -150}, want: "-$1.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.money.String(); got != tt.want {
				t.Errorf("Money.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		wantJSON string
	}{
		{name: "whole pesos", money: Pesos(500), wantJSON: "500"},
		{name: "with cents", money: Money{Cents: 50050}, wantJSON: "500.50"},
		{name: "zero", money: Money{}, wantJSON: "0"},
		{name: "negative", money: Money{Cents: -25000}, wantJSON: "-250"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.money)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(b) != tt.wantJSON {
				t.Errorf("Marshal() = %s, want %s", b, tt.wantJSON)
			}
			var back Money
			if err := json.Unmarshal(b, &back); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if back.Cents != tt.money.Cents {
				t.Errorf("round trip = %v, want %v", back.Cents, tt.money.Cents)
			}
		})
	}
}

func TestMoneyUnmarshalQuotedNumber(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"1250.75"`), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m.Cents != 125075 {
		t.Errorf("Unmarshal(quoted) = %v, want 125075", m.Cents)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := Pesos(10).Validate(); err != nil {
		t.Errorf("Validate(positive) error = %v", err)
	}
	if err := (Money{}).Validate(); err == nil {
		t.Error("Validate(zero) expected error")
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Error("Validate(negative) expected error")
	}
}
