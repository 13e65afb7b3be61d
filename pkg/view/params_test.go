package view

import (
	"errors"
	"testing"
)

func TestParamsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{
			name:   "Valid",
			params: Params{SubgraphSize: 25, Seeds: []string{"alice"}},
		},
		{
			name:    "ZeroSubgraphSize",
			params:  Params{Seeds: []string{"alice"}},
			wantErr: ErrInvalidSubgraphSize,
		},
		{
			name:    "NegativeSubgraphSize",
			params:  Params{SubgraphSize: -3, Seeds: []string{"alice"}},
			wantErr: ErrInvalidSubgraphSize,
		},
		{
			name:    "NoSeeds",
			params:  Params{SubgraphSize: 25},
			wantErr: ErrMissingSeedSet,
		},
		{
			name:    "BlankSeeds",
			params:  Params{SubgraphSize: 25, Seeds: []string{"", "  "}},
			wantErr: ErrMissingSeedSet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.ValidateAndSetDefaults()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateAndSetDefaults() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParamsDefaults(t *testing.T) {
	p := Params{SubgraphSize: 10, Seeds: []string{"alice"}}
	if err := p.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if got, want := p.BridgeBudget, DefaultBridgeBudget; got != want {
		t.Errorf("BridgeBudget = %d, want %d", got, want)
	}
	if got, want := p.PathBridgeCap, DefaultPathBridgeCap; got != want {
		t.Errorf("PathBridgeCap = %d, want %d", got, want)
	}
	if got, want := p.SearchDepth, DefaultSearchDepth; got != want {
		t.Errorf("SearchDepth = %d, want %d", got, want)
	}
	if got, want := p.RepairIterations, DefaultRepairIterations; got != want {
		t.Errorf("RepairIterations = %d, want %d", got, want)
	}
}

func TestParamsValidateIdempotent(t *testing.T) {
	p := Params{
		SubgraphSize:  10,
		Seeds:         []string{"alice"},
		BridgeBudget:  7,
		PathBridgeCap: 2,
	}
	if err := p.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first ValidateAndSetDefaults() error = %v", err)
	}
	if err := p.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error = %v", err)
	}

	if got, want := p.BridgeBudget, 7; got != want {
		t.Errorf("BridgeBudget = %d, want %d", got, want)
	}
	if got, want := p.PathBridgeCap, 2; got != want {
		t.Errorf("PathBridgeCap = %d, want %d", got, want)
	}
}
