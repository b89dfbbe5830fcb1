package main

import (
	"encoding/csv"
	"log"
	"os"
	"path/filepath"

	"healthmate-be/internal/config"
	"healthmate-be/internal/constant"

	"github.com/fatih/color"
)

// triple pairs a native corpus row with its English translation. The
// translated row is written directly below the native one, which is the
// layout the advisor relies on when resolving English display names.
type triple struct {
	subject, relation, object       string
	subjectEN, relationEN, objectEN string
}

var sampleTriples = []triple{
	{"姜汤", "recipe-has-effect", "祛寒", "Ginger Soup", "recipe-has-effect", "dispel cold"},
	{"姜汤", "recipe-has-effect", "缓解感冒", "Ginger Soup", "recipe-has-effect", "cold relief"},
	{"姜汤", "recipe-has-ingredient", "生姜", "Ginger Soup", "recipe-has-ingredient", "ginger"},
	{"姜汤", "recipe-has-ingredient", "红糖", "Ginger Soup", "recipe-has-ingredient", "brown sugar"},
	{"葱白粥", "recipe-has-effect", "缓解感冒", "Scallion Congee", "recipe-has-effect", "cold relief"},
	{"葱白粥", "recipe-has-ingredient", "大米", "Scallion Congee", "recipe-has-ingredient", "rice"},
	{"葱白粥", "recipe-has-ingredient", "葱白", "Scallion Congee", "recipe-has-ingredient", "scallion"},
	{"蒜蓉炖鸡", "recipe-has-effect", "缓解感冒", "Garlic Chicken Stew", "recipe-has-effect", "cold relief"},
	{"蒜蓉炖鸡", "recipe-has-effect", "补气", "Garlic Chicken Stew", "recipe-has-effect", "restore energy"},
	{"蒜蓉炖鸡", "recipe-has-ingredient", "大蒜", "Garlic Chicken Stew", "recipe-has-ingredient", "garlic"},
	{"蒜蓉炖鸡", "recipe-has-ingredient", "鸡肉", "Garlic Chicken Stew", "recipe-has-ingredient", "chicken"},
	{"薄荷茶", "recipe-has-effect", "清热", "Mint Tea", "recipe-has-effect", "clear heat"},
	{"薄荷茶", "recipe-has-ingredient", "薄荷", "Mint Tea", "recipe-has-ingredient", "mint"},
	{"红枣茶", "recipe-has-effect", "补气", "Jujube Tea", "recipe-has-effect", "restore energy"},
	{"红枣茶", "recipe-has-effect", "安神", "Jujube Tea", "recipe-has-effect", "calm the mind"},
	{"红枣茶", "recipe-has-ingredient", "红枣", "Jujube Tea", "recipe-has-ingredient", "jujube"},
	{"雪梨汤", "recipe-has-effect", "润肺", "Snow Pear Soup", "recipe-has-effect", "moisten lungs"},
	{"雪梨汤", "recipe-has-effect", "清热", "Snow Pear Soup", "recipe-has-effect", "clear heat"},
	{"雪梨汤", "recipe-has-ingredient", "雪梨", "Snow Pear Soup", "recipe-has-ingredient", "snow pear"},
	{"雪梨汤", "recipe-has-ingredient", "冰糖", "Snow Pear Soup", "recipe-has-ingredient", "rock sugar"},
	{"山药排骨汤", "recipe-has-effect", "健脾", "Yam Pork Rib Soup", "recipe-has-effect", "strengthen spleen"},
	{"山药排骨汤", "recipe-has-ingredient", "山药", "Yam Pork Rib Soup", "recipe-has-ingredient", "yam"},
	{"山药排骨汤", "recipe-has-ingredient", "排骨", "Yam Pork Rib Soup", "recipe-has-ingredient", "pork ribs"},
	{"绿豆汤", "recipe-has-effect", "清热", "Mung Bean Soup", "recipe-has-effect", "clear heat"},
	{"绿豆汤", "recipe-has-effect", "解暑", "Mung Bean Soup", "recipe-has-effect", "relieve summer heat"},
	{"绿豆汤", "recipe-has-ingredient", "绿豆", "Mung Bean Soup", "recipe-has-ingredient", "mung beans"},
}

func main() {
	color.Cyan("🌱 Seeding sample recipe knowledge-graph corpus\n")

	cfg := config.Load()
	path := cfg.Corpus.CSVPath

	if _, err := os.Stat(path); err == nil {
		color.Yellow("Corpus already exists at %s, refusing to overwrite", path)
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatalf("create corpus dir: %v", err)
	}

	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("create corpus file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"subject", "relation", "object"}); err != nil {
		log.Fatalf("write header: %v", err)
	}
	for _, t := range sampleTriples {
		if err := w.Write([]string{t.subject, t.relation, t.object}); err != nil {
			log.Fatalf("write row: %v", err)
		}
		if err := w.Write([]string{t.subjectEN, t.relationEN, t.objectEN}); err != nil {
			log.Fatalf("write translated row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("flush corpus: %v", err)
	}

	color.Green("Wrote %d triples (with translations) to %s", len(sampleTriples), path)
	color.Green("Effect relation: %s", constant.DefaultEffectRelation)
	color.Green("Ingredient relation: %s", constant.DefaultIngredientRelation)
}
