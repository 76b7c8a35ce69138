package imputego_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/imputego"
	"github.com/hupe1980/imputego/dataset"
	"github.com/hupe1980/imputego/testutil"
)

// holed builds a small correlated table with holes in y.
func holed(t *testing.T) *dataset.Dataset {
	t.Helper()

	rng := testutil.NewRNG(13)
	ds := testutil.CorrelatedDataset(rng, 60, 0.8)
	for _, row := range []int{3, 17, 40, 55} {
		if err := ds.SetMissing("y", row); err != nil {
			t.Fatalf("SetMissing failed: %v", err)
		}
	}

	return ds
}

func TestBuilder_Mean_Basic(t *testing.T) {
	s, err := imputego.Mean().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.Name() != "mean" {
		t.Errorf("Name = %q, want mean", s.Name())
	}

	result, err := s.Impute(context.Background(), holed(t), []string{"y"})
	if err != nil {
		t.Fatalf("Impute failed: %v", err)
	}
	if result.Completions[0].HasMissing() {
		t.Error("expected all holes filled")
	}
}

func TestBuilder_ChainedEquations_FullOptions(t *testing.T) {
	s, err := imputego.ChainedEquations().
		Completions(3).
		MaxIterations(5).
		Seed(9).
		Tolerance(1e-4).
		Parallelism(2).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	result, err := s.Impute(context.Background(), holed(t), []string{"y"})
	if err != nil {
		t.Fatalf("Impute failed: %v", err)
	}
	if len(result.Completions) != 3 {
		t.Errorf("Completions = %d, want 3", len(result.Completions))
	}
}

func TestBuilder_ChainedEquations_Invalid(t *testing.T) {
	_, err := imputego.ChainedEquations().Completions(0).Build()
	if !errors.Is(err, imputego.ErrInvalidCompletions) {
		t.Errorf("err = %v, want ErrInvalidCompletions", err)
	}

	_, err = imputego.ChainedEquations().MaxIterations(-1).Build()
	if !errors.Is(err, imputego.ErrInvalidIterations) {
		t.Errorf("err = %v, want ErrInvalidIterations", err)
	}
}

func TestBuilder_KNN_FullOptions(t *testing.T) {
	s, err := imputego.KNN(3).
		Weighted().
		Manhattan().
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.Name() != "knn" {
		t.Errorf("Name = %q, want knn", s.Name())
	}

	result, err := s.Impute(context.Background(), holed(t), []string{"y"})
	if err != nil {
		t.Fatalf("Impute failed: %v", err)
	}
	if result.Completions[0].HasMissing() {
		t.Error("expected all holes filled")
	}
}

func TestBuilder_KNN_Invalid(t *testing.T) {
	_, err := imputego.KNN(0).Build()
	if !errors.Is(err, imputego.ErrInvalidK) {
		t.Errorf("err = %v, want ErrInvalidK", err)
	}
}

func TestBuilder_RandomForest_FullOptions(t *testing.T) {
	s, err := imputego.RandomForest().
		Trees(20).
		MaxIterations(3).
		Tolerance(1e-3).
		MinLeaf(3).
		SampleFeatures(2).
		Seed(7).
		Parallelism(2).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	result, err := s.Impute(context.Background(), holed(t), []string{"y"})
	if err != nil {
		t.Fatalf("Impute failed: %v", err)
	}
	if result.Completions[0].HasMissing() {
		t.Error("expected all holes filled")
	}
}

func TestBuilder_RandomForest_Invalid(t *testing.T) {
	_, err := imputego.RandomForest().Trees(0).Build()
	if !errors.Is(err, imputego.ErrInvalidTrees) {
		t.Errorf("err = %v, want ErrInvalidTrees", err)
	}
}

func TestBuilder_Immutable(t *testing.T) {
	base := imputego.ChainedEquations()
	three := base.Completions(3)
	seven := base.Completions(7)

	ds := holed(t)
	ctx := context.Background()

	for _, tc := range []struct {
		builder imputego.ChainedEquationsBuilder
		want    int
	}{
		{three, 3},
		{seven, 7},
		{base, 5}, // untouched by the derived builders
	} {
		s, err := tc.builder.Build()
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		result, err := s.Impute(ctx, ds, []string{"y"})
		if err != nil {
			t.Fatalf("Impute failed: %v", err)
		}
		if len(result.Completions) != tc.want {
			t.Errorf("Completions = %d, want %d", len(result.Completions), tc.want)
		}
	}
}

func TestBuilder_MustBuild_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected MustBuild to panic on invalid config")
		}
	}()

	_ = imputego.KNN(-1).MustBuild()
}
