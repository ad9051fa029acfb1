package pagination

import "testing"

func TestBuild(t *testing.T) {
	nav := Build(1, 151, 10, 5)

	if nav.PagesCount != 16 {
		t.Errorf("PagesCount = %d, want 16", nav.PagesCount)
	}
	if !nav.First.Disabled || !nav.Prev.Disabled {
		t.Error("First/Prev should be disabled on the first page")
	}
	if nav.Next.Disabled || nav.Last.Disabled {
		t.Error("Next/Last should be enabled on the first page")
	}
	if nav.Next.Page != 2 || nav.Last.Page != 16 {
		t.Errorf("Next.Page = %d, Last.Page = %d, want 2 and 16", nav.Next.Page, nav.Last.Page)
	}
	if len(nav.Pages) != 5 {
		t.Fatalf("len(Pages) = %d, want 5", len(nav.Pages))
	}
	if !nav.Pages[0].Active || nav.Pages[0].Label != "1" {
		t.Errorf("Pages[0] = %+v, want active page 1", nav.Pages[0])
	}
}

func TestBuild_LastPage(t *testing.T) {
	nav := Build(16, 151, 10, 5)

	if nav.First.Disabled || nav.Prev.Disabled {
		t.Error("First/Prev should be enabled on the last page")
	}
	if !nav.Next.Disabled || !nav.Last.Disabled {
		t.Error("Next/Last should be disabled on the last page")
	}
	if nav.Prev.Page != 15 {
		t.Errorf("Prev.Page = %d, want 15", nav.Prev.Page)
	}
	if nav.Window != (Window{Start: 12, End: 17}) {
		t.Errorf("Window = %+v, want {12 17}", nav.Window)
	}
}

func TestBuild_DefaultCut(t *testing.T) {
	nav := Build(6, 120, 10, 0)
	if nav.Window.Len() != DefaultCutCount {
		t.Errorf("Window.Len() = %d, want %d", nav.Window.Len(), DefaultCutCount)
	}
}

func TestBuild_Empty(t *testing.T) {
	nav := Build(1, 0, 10, 5)
	if nav.PagesCount != 0 || len(nav.Pages) != 0 {
		t.Errorf("empty nav = %+v, want no pages", nav)
	}
	if !nav.Next.Disabled || !nav.Last.Disabled {
		t.Error("Next/Last should be disabled without pages")
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, pagesCount, want int
	}{
		{0, 5, 1},
		{-3, 5, 1},
		{3, 5, 3},
		{9, 5, 5},
		{4, 0, 1},
	}

	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.pagesCount); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.pagesCount, got, tt.want)
		}
	}
}
