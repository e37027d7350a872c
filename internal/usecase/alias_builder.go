package usecase

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/torimo/backend/internal/domain"
	"github.com/torimo/backend/internal/pkg/foodname"
)

// cookMethodGroups are near-synonymous cooking verbs. A name containing one
// member is expanded with every sibling of its group.
var cookMethodGroups = [][]string{
	{"焼き", "焼", "グリル", "ロースト"},
	{"揚げ", "フライ", "唐揚げ"},
	{"炒め", "ソテー"},
	{"煮", "煮込み"},
	{"蒸し"},
	{"茹で", "ゆで", "ボイル"},
}

// cookMethods is every cooking verb, longest first
var cookMethods = func() []string {
	var out []string
	for _, g := range cookMethodGroups {
		out = append(out, g...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len([]rune(out[i])) != len([]rune(out[j])) {
			return len([]rune(out[i])) > len([]rune(out[j]))
		}
		return out[i] < out[j]
	})
	return out
}()

// synonymFamilies lists spellings of the same ingredient across scripts.
// The first member is the kanji head of the family.
var synonymFamilies = [][]string{
	// fish and seafood
	{"鮭", "さけ", "サケ", "サーモン", "salmon"},
	{"鯖", "さば", "サバ", "mackerel"},
	{"鰤", "ぶり", "ブリ", "yellowtail"},
	{"鮪", "まぐろ", "マグロ", "tuna"},
	{"鯵", "あじ", "アジ"},
	{"鰯", "いわし", "イワシ", "sardine"},
	{"鰹", "かつお", "カツオ", "bonito"},
	{"鯛", "たい", "タイ"},
	{"鰈", "かれい", "カレイ", "flounder"},
	{"秋刀魚", "さんま", "サンマ"},
	{"鰻", "うなぎ", "ウナギ", "eel"},
	{"鱈", "たら", "タラ", "cod"},
	{"海老", "えび", "エビ", "shrimp"},
	{"烏賊", "いか", "イカ", "squid"},
	{"蛸", "たこ", "タコ", "octopus"},
	{"帆立", "ほたて", "ホタテ", "scallop"},
	// meat
	{"鶏", "とり", "トリ", "チキン", "chicken"},
	{"豚", "ぶた", "ブタ", "ポーク", "pork"},
	{"牛", "うし", "ウシ", "ビーフ", "beef"},
	{"羊", "ひつじ", "ヒツジ", "ラム", "lamb"},
	{"胸肉", "むね肉", "むねにく", "ムネニク", "breast"},
	{"腿肉", "もも肉", "ももにく", "モモニク", "thigh"},
	{"挽肉", "ひき肉", "ひきにく", "ヒキニク", "ground"},
	// vegetables
	{"人参", "にんじん", "ニンジン", "carrot"},
	{"胡瓜", "きゅうり", "キュウリ", "cucumber"},
	{"大根", "だいこん", "ダイコン", "daikon"},
	{"南瓜", "かぼちゃ", "カボチャ", "pumpkin"},
	{"茄子", "なす", "ナス", "eggplant"},
	{"法蓮草", "ほうれん草", "ほうれんそう", "ホウレンソウ", "spinach"},
	{"甘藍", "キャベツ", "きゃべつ", "cabbage"},
	{"玉葱", "たまねぎ", "タマネギ", "onion"},
	{"蕃茄", "トマト", "とまと", "tomato"},
	{"馬鈴薯", "じゃがいも", "ジャガイモ", "potato"},
	{"甘藷", "薩摩芋", "さつまいも", "サツマイモ"},
	{"葱", "ねぎ", "ネギ", "scallion"},
	{"蓮根", "れんこん", "レンコン", "lotus"},
	{"牛蒡", "ごぼう", "ゴボウ", "burdock"},
	{"椎茸", "しいたけ", "シイタケ", "shiitake"},
	{"榎茸", "えのき", "エノキ", "enoki"},
	{"占地", "しめじ", "シメジ", "shimeji"},
	{"小松菜", "こまつな", "コマツナ", "komatsuna"},
	{"白菜", "はくさい", "ハクサイ", "napa"},
	{"水菜", "みずな", "ミズナ", "mizuna"},
	{"春菊", "しゅんぎく", "シュンギク", "shungiku"},
	{"豆苗", "とうみょう", "トウミョウ"},
	{"枝豆", "えだまめ", "エダマメ", "edamame"},
	{"蒜", "にんにく", "ニンニク", "garlic"},
	{"獅子唐", "ししとう", "シシトウ", "shishito"},
	{"花椰菜", "カリフラワー", "かりふらわー", "cauliflower"},
	{"芹", "セロリ", "せろり", "celery"},
	{"石刁柏", "アスパラガス", "あすぱらがす", "asparagus"},
	{"秋葵", "オクラ", "おくら", "okra"},
	{"筍", "たけのこ", "タケノコ", "bamboo"},
	{"茗荷", "みょうが", "ミョウガ", "myoga"},
	{"韮", "にら", "ニラ", "garlic chive"},
	{"西蘭花", "ブロッコリー", "ぶろっこりー", "broccoli"},
	{"青椒", "ピーマン", "ぴーまん", "pepper"},
	{"紫蘇", "しそ", "シソ", "shiso"},
	{"莴苣", "レタス", "れたす", "lettuce"},
	// common terms
	{"卵", "たまご", "タマゴ", "玉子", "egg"},
	{"野菜", "やさい", "ヤサイ", "vegetable"},
	{"魚", "さかな", "サカナ", "fish"},
	{"魚介", "ぎょかい", "ギョカイ", "seafood"},
	{"刺身", "さしみ", "サシミ", "sashimi"},
	{"寿司", "すし", "スシ", "鮨", "鮓", "sushi"},
	{"肉", "にく", "ニク", "meat"},
	{"飯", "めし", "メシ", "ご飯", "ごはん", "rice"},
}

// bracket pairs whose content is dropped for the parenthetical-stripped seed
var parenContent = []*regexp.Regexp{
	regexp.MustCompile(`（[^）]*）`),
	regexp.MustCompile(`\([^)]*\)`),
	regexp.MustCompile(`［[^］]*］`),
	regexp.MustCompile(`\[[^\]]*\]`),
	regexp.MustCompile(`＜[^＞]*＞`),
	regexp.MustCompile(`<[^>]*>`),
}

var (
	tokenDelimiters  = regexp.MustCompile(`[\s・/|]+`)
	asciiLettersOnly = regexp.MustCompile(`^[A-Za-z\s]+$`)
	dashFolder       = strings.NewReplacer("‐", "-", "‑", "-", "—", "-", "－", "-")
)

// AliasBuilder generates alias variants for canonical food names
type AliasBuilder struct {
	logger *zap.Logger
}

// NewAliasBuilder creates an alias builder
func NewAliasBuilder(logger *zap.Logger) *AliasBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AliasBuilder{logger: logger.Named("alias_builder")}
}

// Build registers the variants of every name in input order. An alias
// generated by two names belongs to the one listed first.
func (b *AliasBuilder) Build(names []string) *domain.AliasTable {
	table := domain.NewAliasTable()
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if table.Variants(name) != nil {
			continue
		}
		table.Register(name, AliasVariants(name))
	}
	b.logger.Info("alias table built",
		zap.Int("foods", table.Canonicals()),
		zap.Int("aliases", table.Len()),
	)
	return table
}

// AliasVariants returns the sorted, deduplicated variant set for name
func AliasVariants(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	w := foodname.NFKC(foodname.ApplyReplacements(name))
	compact := dashFolder.Replace(foodname.StripBullets(foodname.StripSpaces(w)))
	noParen := stripParenContent(w)
	noParenCompact := dashFolder.Replace(foodname.StripBullets(foodname.StripSpaces(noParen)))

	seeds := newStringSet()
	seeds.add(w, compact, noParen, noParenCompact,
		strings.ToLower(w), strings.ToLower(compact), strings.ToLower(noParenCompact))

	tokens := splitTokens(foodname.NFKC(noParen))
	if len(tokens) > 0 {
		seeds.add(tokens...)
		seeds.add(strings.Join(tokens, ""))
		if len(tokens) >= 2 {
			seeds.add(strings.Join(tokens[len(tokens)-2:], ""))
		}
		seeds.add(tokens[len(tokens)-1])
	}

	// permutations and synonyms are expanded once; their outputs are not fed back
	all := newStringSet()
	for _, seed := range seeds.items() {
		all.add(seed)
		for _, p := range cookPermutations(seed) {
			all.add(p)
			all.add(expandSynonyms(p)...)
		}
	}

	title := cases.Title(language.Und)
	final := newStringSet()
	for _, v := range all.items() {
		v = foodname.StripBullets(foodname.StripSpaces(foodname.NFKC(v)))
		if v == "" {
			continue
		}
		final.add(v)
		if asciiLettersOnly.MatchString(v) {
			final.add(strings.ToLower(v), title.String(v))
		}
	}
	return final.sorted()
}

func stripParenContent(s string) string {
	for _, re := range parenContent {
		s = re.ReplaceAllString(s, "")
	}
	return s
}

func splitTokens(s string) []string {
	var out []string
	for _, t := range tokenDelimiters.Split(s, -1) {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// cookPermutations reorders a name around each cooking verb it contains:
// 焼き鮭 also yields 鮭焼き, 鮭の焼き and 焼きの鮭. A verb inside a longer
// verb that is present (焼 in 焼き) is not used on its own.
func cookPermutations(s string) []string {
	out := []string{s}
	for _, m := range cookMethods {
		if !strings.Contains(s, m) || shadowed(s, m, cookMethods) {
			continue
		}
		rest := foodname.StripSpaces(strings.ReplaceAll(s, m, ""))
		rest = strings.ReplaceAll(rest, "の", "")
		if rest == "" {
			continue
		}
		out = append(out, rest+m, rest+"の"+m, m+rest, m+"の"+rest)
	}
	return out
}

// expandSynonyms swaps ingredient spellings and cooking verbs for their
// siblings. A member is skipped when a longer member of the same family
// contains it and is itself present, so ご飯 is not read as 飯.
func expandSynonyms(s string) []string {
	out := []string{s}
	for _, family := range synonymFamilies {
		for _, m := range family {
			if !strings.Contains(s, m) || shadowed(s, m, family) {
				continue
			}
			for _, alt := range family {
				if alt == m || strings.Contains(alt, m) {
					continue
				}
				out = append(out, strings.ReplaceAll(s, m, alt))
			}
		}
	}
	for _, group := range cookMethodGroups {
		t0 := ""
		for _, t := range group {
			if strings.Contains(s, t) {
				t0 = t
				break
			}
		}
		if t0 == "" {
			continue
		}
		for _, alt := range group {
			if alt == t0 || strings.Contains(alt, t0) {
				continue
			}
			out = append(out, strings.ReplaceAll(s, t0, alt))
		}
	}
	return out
}

func shadowed(s, member string, family []string) bool {
	for _, o := range family {
		if o != member && strings.Contains(o, member) && strings.Contains(s, o) {
			return true
		}
	}
	return false
}

// stringSet keeps insertion order so iteration stays deterministic
type stringSet struct {
	seen  map[string]struct{}
	order []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]struct{})}
}

func (s *stringSet) add(vals ...string) {
	for _, v := range vals {
		if v == "" {
			continue
		}
		if _, ok := s.seen[v]; ok {
			continue
		}
		s.seen[v] = struct{}{}
		s.order = append(s.order, v)
	}
}

func (s *stringSet) items() []string {
	return s.order
}

func (s *stringSet) sorted() []string {
	out := append([]string(nil), s.order...)
	sort.Strings(out)
	return out
}
