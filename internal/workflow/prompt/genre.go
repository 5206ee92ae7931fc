// Package prompt 提供体裁约束与提示词构建
package prompt

import "strings"

// GenreConstraints 体裁约束包（语气/节奏/视角/感官侧重）
type GenreConstraints struct {
	Tone          string   `json:"tone,omitempty"`
	Pace          string   `json:"pace,omitempty"`
	POVPreference string   `json:"pov_preference,omitempty"`
	SensoryFocus  []string `json:"sensory_focus,omitempty"`
	Style         string   `json:"style,omitempty"`
	GenreKeywords []string `json:"genre_keywords,omitempty"`
}

// GenreConfig 体裁配置
type GenreConfig struct {
	Name        string           `json:"name"`
	Framework   string           `json:"framework"`
	Outline     []string         `json:"outline"`
	Constraints GenreConstraints `json:"constraints"`
}

// DefaultGenre 默认体裁名
const DefaultGenre = "General Fiction"

// 体裁主表，进程生命周期内只读
var genreConfigs = map[string]*GenreConfig{
	"Horror": {
		Name:      "Horror",
		Framework: "tension_escalation",
		Outline:   []string{"setup", "rising dread", "twist ending"},
		Constraints: GenreConstraints{
			Tone:          "dark",
			Pace:          "fast",
			POVPreference: "first_or_limited",
			SensoryFocus:  []string{"sound", "touch", "atmosphere"},
			GenreKeywords: []string{"horror"},
		},
	},
	"Romance": {
		Name:      "Romance",
		Framework: "emotional_arc",
		Outline:   []string{"connection", "disruption", "resolution"},
		Constraints: GenreConstraints{
			Tone:          "warm",
			Pace:          "moderate",
			POVPreference: "first_or_third",
			SensoryFocus:  []string{"sight", "emotion", "intimacy"},
			GenreKeywords: []string{"romance"},
		},
	},
	"Speculative": {
		Name:      "Speculative",
		Framework: "world_building_arc",
		Outline:   []string{"world setup", "conflict", "resolution/implication"},
		Constraints: GenreConstraints{
			Tone:          "imaginative",
			Pace:          "compressed",
			POVPreference: "third",
			SensoryFocus:  []string{"sight", "world_detail", "concept"},
			GenreKeywords: []string{"science_fiction", "fantasy"},
		},
	},
	"Literary": {
		Name:      "Literary",
		Framework: "character_arc",
		Outline:   []string{"character introduction", "internal conflict", "transformation"},
		Constraints: GenreConstraints{
			Tone:          "nuanced",
			Pace:          "deliberate",
			POVPreference: "third_limited",
			SensoryFocus:  []string{"detail", "emotion", "subtext"},
			Style:         "literary",
		},
	},
	"Thriller": {
		Name:      "Thriller",
		Framework: "suspense_arc",
		Outline:   []string{"inciting threat", "escalating stakes", "climax"},
		Constraints: GenreConstraints{
			Tone:          "urgent",
			Pace:          "fast",
			POVPreference: "third_limited",
			SensoryFocus:  []string{"action", "tension", "urgency"},
			GenreKeywords: []string{"thriller", "mystery"},
		},
	},
	DefaultGenre: {
		Name:      DefaultGenre,
		Framework: "narrative_arc",
		Outline:   []string{"setup", "complication", "resolution"},
		Constraints: GenreConstraints{
			Tone:          "balanced",
			Pace:          "moderate",
			POVPreference: "flexible",
			SensoryFocus:  []string{"balanced"},
		},
	},
}

// 别名表，归一化后的别名指向主表键。
// 别名与主名解析到同一个 *GenreConfig，保证两者永远一致。
var genreAliases = map[string]string{
	"crime / noir":    "Thriller",
	"crime":           "Thriller",
	"noir":            "Thriller",
	"mystery":         "Thriller",
	"suspense":        "Thriller",
	"sci-fi":          "Speculative",
	"science fiction": "Speculative",
	"fantasy":         "Speculative",
	"drama":           "Literary",
}

// 归一化名 -> 配置的查找索引，init 时构建后只读
var genreIndex = buildGenreIndex()

func buildGenreIndex() map[string]*GenreConfig {
	index := make(map[string]*GenreConfig, len(genreConfigs)+len(genreAliases))
	for name, cfg := range genreConfigs {
		index[normalizeGenreName(name)] = cfg
	}
	for alias, target := range genreAliases {
		index[alias] = genreConfigs[target]
	}
	return index
}

func normalizeGenreName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ResolveGenre 按名称解析体裁配置
// 全函数：空白、未知名称一律回落到 General Fiction，永不失败
func ResolveGenre(name string) *GenreConfig {
	normalized := normalizeGenreName(name)
	if normalized == "" {
		return genreConfigs[DefaultGenre]
	}
	if cfg, ok := genreIndex[normalized]; ok {
		return cfg
	}
	return genreConfigs[DefaultGenre]
}

// GenreNames 返回主体裁名列表
func GenreNames() []string {
	names := make([]string, 0, len(genreConfigs))
	for name := range genreConfigs {
		names = append(names, name)
	}
	return names
}

// GenreAliases 返回别名到主体裁名的映射
func GenreAliases() map[string]string {
	aliases := make(map[string]string, len(genreAliases))
	for alias, target := range genreAliases {
		aliases[alias] = target
	}
	return aliases
}
