package segment

import (
	"testing"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

func doc(name, url, category string) domain.Document {
	return domain.Document{
		ID:   name,
		Text: name,
		Meta: domain.Metadata{"name": name, "url": url, "category": category},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		doc  domain.Document
		want Tags
	}{
		{
			name: "mens watch by name",
			doc:  doc("Pánske hodinky Adventure", "", ""),
			want: Tags{Men: true},
		},
		{
			name: "mens token vetoed by womens token",
			doc:  doc("Pánske aj dámske hodinky Uni", "", ""),
			want: Tags{Women: true},
		},
		{
			name: "mens url wins despite womens token",
			doc:  doc("Dámske aj unisex", "https://shop.example/panske-hodinky/adventure", ""),
			want: Tags{Men: true, Women: true},
		},
		{
			name: "kids brand token",
			doc:  doc("GuardKid 4G Blue", "", ""),
			want: Tags{Kids: true},
		},
		{
			name: "kids category phrase",
			doc:  doc("Smart hodinky", "", "Hodinky pre deti"),
			want: Tags{Kids: true},
		},
		{
			name: "pet locator brand",
			doc:  doc("DogSAFE lokátor", "", ""),
			want: Tags{Pet: true, GPS: false},
		},
		{
			name: "gps capability token",
			doc:  doc("Adventure GPS hodinky", "", ""),
			want: Tags{GPS: true},
		},
		{
			name: "ungendered document carries no tags",
			doc:  doc("Nabíjací kábel", "https://shop.example/prislusenstvo/kabel", ""),
			want: Tags{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.doc)
			if got != tt.want {
				t.Errorf("Classify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		question string
		want     Intent
	}{
		{"chcem pánske hodinky do 100 eur", Intent{WantsMen: true}},
		{"dámske hodinky na plávanie", Intent{WantsWomen: true}},
		{"hodinky pre deti s volaním", Intent{WantsKids: true}},
		{"GPS lokátor pre psa", Intent{WantsPet: true, GPSRequired: true}},
		{"mám psa a neviem čo mu kúpiť", Intent{WantsPet: true}},
		{"stratil sa nám pes", Intent{WantsPet: true}},
		{"ako spárovať hodinky s telefónom", Intent{}},
	}

	for _, tt := range tests {
		got := DetectIntent(tt.question)
		if got != tt.want {
			t.Errorf("DetectIntent(%q) = %+v, want %+v", tt.question, got, tt.want)
		}
	}
}

func TestIntentSegmentPriority(t *testing.T) {
	// men > women > kids > pet, first true wins
	i := Intent{WantsMen: true, WantsWomen: true, WantsKids: true, WantsPet: true}
	if got := i.Segment(); got != TagMen {
		t.Fatalf("Segment() = %v, want TagMen", got)
	}
	i.WantsMen = false
	if got := i.Segment(); got != TagWomen {
		t.Fatalf("Segment() = %v, want TagWomen", got)
	}
	if got := (Intent{}).Segment(); got != Tag(-1) {
		t.Fatalf("Segment() on empty intent = %v, want -1", got)
	}
}
