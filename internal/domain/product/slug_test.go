package product

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Super Mario Odyssey", want: "super-mario-odyssey"},
		{title: "Pokémon Sword", want: "pokemon-sword"},
		{title: "  FIFA 23 -- Legacy!! ", want: "fifa-23-legacy"},
		{title: "Zelda: Breath of the Wild", want: "zelda-breath-of-the-wild"},
		{title: "Crème brûlée édition", want: "creme-brulee-edition"},
		{title: "---", want: ""},
		{title: "", want: ""},
		{title: "PS5 / Xbox", want: "ps5-xbox"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			require.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	for _, title := range []string{"Pokémon Sword", "A  B", "-x-", "Ünïcödé Çase", "100% Orange Juice"} {
		once := Slugify(title)
		require.Equal(t, once, Slugify(once), title)
	}
}

func TestSlugify_DistinctTitlesStayDistinct(t *testing.T) {
	titles := []string{"Mario Kart 8", "Mario Kart 7", "Mario Kart 8 Deluxe", "Mario Party"}
	seen := make(map[string]string)
	for _, title := range titles {
		slug := Slugify(title)
		prev, dup := seen[slug]
		require.False(t, dup, "%q collides with %q", title, prev)
		seen[slug] = title
	}
}

func TestSlugify_PunctuationOnlyDifferencesCollapse(t *testing.T) {
	require.Equal(t, Slugify("Zelda: BotW"), Slugify("Zelda BotW"))
}
