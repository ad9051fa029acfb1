package detail

import "testing"

func sampleDetail() *Detail {
	return &Detail{
		ID: "65",
		Effects: []Effect{
			{Effect: "Erhöht die Initiative...", ShortEffect: "Erhöht Initiative", Locale: "de"},
			{Effect: "Increases Speed...", ShortEffect: "Increases Speed when HP is low.", Locale: "en"},
		},
		FlavorTexts: []LocalizedText{
			{Text: "ピンチのとき くさタイプの わざの いりょくが あがる。", Locale: "ja-Hrkt"},
			{Text: "Powers up Grass-type moves in a pinch.", Locale: "en"},
			{Text: "Boosts Grass moves in a pinch.", Locale: "en"},
		},
		Names: []LocalizedText{
			{Text: "しんりょく", Locale: "ja-Hrkt"},
			{Text: "심록", Locale: "ko"},
			{Text: "Notdünger", Locale: "de"},
			{Text: "Overgrow", Locale: "en"},
		},
		Generation: "generation-iii",
	}
}

func TestDetail_LocaleLookups(t *testing.T) {
	d := sampleDetail()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"name en", d.Name("en"), "Overgrow"},
		{"name de", d.Name("de"), "Notdünger"},
		{"name missing locale", d.Name("fr"), UnknownName},
		{"effect en", d.Effect("en"), "Increases Speed when HP is low."},
		{"effect missing locale", d.Effect("es"), NoData},
		{"flavor first en entry", d.Flavor("en"), "Powers up Grass-type moves in a pinch."},
		{"flavor missing locale", d.Flavor("it"), NoData},
		{"generation", d.GenerationLabel(), "generation-iii"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestDetail_ShortSequences(t *testing.T) {
	d := &Detail{Names: []LocalizedText{{Text: "Overgrow", Locale: "ja"}}}

	if got := d.Name("en"); got != UnknownName {
		t.Errorf("Name() = %q, want %q", got, UnknownName)
	}
	if got := d.Effect("en"); got != NoData {
		t.Errorf("Effect() = %q, want %q", got, NoData)
	}
	if got := d.Flavor("en"); got != NoData {
		t.Errorf("Flavor() = %q, want %q", got, NoData)
	}
	if got := d.GenerationLabel(); got != NoData {
		t.Errorf("GenerationLabel() = %q, want %q", got, NoData)
	}
}

func TestDetail_Nil(t *testing.T) {
	var d *Detail

	if d.Name("en") != UnknownName || d.Effect("en") != NoData ||
		d.Flavor("en") != NoData || d.GenerationLabel() != NoData {
		t.Error("nil detail should render fallback texts")
	}
}

func TestAccentColor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"fire", "#EE8130"},
		{"FIRE", "#EE8130"},
		{"generation-iii", FallbackColor},
		{"", FallbackColor},
	}
	for _, tt := range tests {
		if got := AccentColor(tt.name); got != tt.want {
			t.Errorf("AccentColor(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
