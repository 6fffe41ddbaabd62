package buildutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureSources(t *testing.T) {
	config := FeatureConfig{
		"CONFIG_A": false,
		"CONFIG_B": true,
		"CONFIG_C": false,
	}

	tests := []struct {
		name     string
		entries  []Entry
		expected []string
	}{
		{
			name:     "plain entries are always included",
			entries:  []Entry{Plain("main.c"), Plain("ui.c")},
			expected: []string{"main.c", "ui.c"},
		},
		{
			name:     "any enabled feature includes the file",
			entries:  []Entry{Conditional("x.c", "CONFIG_A", "CONFIG_B")},
			expected: []string{"x.c"},
		},
		{
			name:     "no enabled feature excludes the file",
			entries:  []Entry{Conditional("y.c", "CONFIG_A")},
			expected: []string{},
		},
		{
			name:     "all disabled features exclude the file",
			entries:  []Entry{Conditional("z.c", "CONFIG_A", "CONFIG_C")},
			expected: []string{},
		},
		{
			name: "order is preserved around exclusions",
			entries: []Entry{
				Plain("a.c"),
				Conditional("b.c", "CONFIG_A"),
				Conditional("c.c", "CONFIG_B"),
				Plain("d.c"),
				Conditional("e.c", "CONFIG_C"),
				Plain("f.c"),
			},
			expected: []string{"a.c", "c.c", "d.c", "f.c"},
		},
		{
			name:     "duplicates are kept",
			entries:  []Entry{Plain("a.c"), Conditional("a.c", "CONFIG_B")},
			expected: []string{"a.c", "a.c"},
		},
		{
			name:     "empty input",
			entries:  nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs, err := FeatureSources(config, tt.entries)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, Paths(refs))
		})
	}
}

func TestFeatureSourcesUnknownFeature(t *testing.T) {
	config := FeatureConfig{"CONFIG_B": true}

	t.Run("single unknown feature", func(t *testing.T) {
		_, err := FeatureSources(config, []Entry{Conditional("x.c", "CONFIG_MISSING")})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownFeature)

		var unknown *UnknownFeatureError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "CONFIG_MISSING", unknown.Feature)
		assert.Equal(t, "x.c", unknown.Path)
	})

	t.Run("unknown feature after an enabled one", func(t *testing.T) {
		_, err := FeatureSources(config, []Entry{Conditional("x.c", "CONFIG_B", "CONFIG_MISSING")})
		assert.ErrorIs(t, err, ErrUnknownFeature)
	})
}

func TestFeatureSourcesEmptyFeatureList(t *testing.T) {
	t.Run("constructor panics", func(t *testing.T) {
		assert.Panics(t, func() {
			Conditional("x.c")
		})
	})

	t.Run("hand built entry is rejected", func(t *testing.T) {
		_, err := FeatureSources(FeatureConfig{}, []Entry{ConditionalFile{Path: "x.c"}})
		assert.ErrorIs(t, err, ErrNoFeatures)
	})
}

func TestFeatureSourcesIn(t *testing.T) {
	dir := filepath.Join("source", "platform")
	abs := filepath.Join(string(filepath.Separator), "abs", "start.S")

	refs, err := FeatureSourcesIn(dir, FeatureConfig{"CONFIG_BIOS": true}, []Entry{
		Plain("platform.c"),
		Conditional("loader/linux.c", "CONFIG_BIOS"),
		Plain(abs),
	})
	require.NoError(t, err)

	require.Len(t, refs, 3)
	assert.Equal(t, "platform.c", refs[0].Path)
	assert.Equal(t, dir, refs[0].Dir)
	assert.Equal(t, filepath.Join(dir, "platform.c"), refs[0].String())
	assert.Equal(t, filepath.Join(dir, "loader/linux.c"), refs[1].String())
	assert.Equal(t, abs, refs[2].String())
}

func TestConditionalCopiesFeatures(t *testing.T) {
	features := []string{"CONFIG_A"}
	entry := Conditional("x.c", features...).(ConditionalFile)
	features[0] = "CONFIG_CHANGED"

	assert.Equal(t, []string{"CONFIG_A"}, entry.Features)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "main.c", Describe(Plain("main.c")))
	assert.Equal(t, "[CONFIG_A | CONFIG_B] x.c", Describe(Conditional("x.c", "CONFIG_A", "CONFIG_B")))
}
