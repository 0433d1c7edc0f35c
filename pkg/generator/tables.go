package generator

// Category is one equipment slot of a bag.
type Category string

const (
	Weapon Category = "weapon"
	Chest  Category = "chest"
	Head   Category = "head"
	Waist  Category = "waist"
	Foot   Category = "foot"
	Hand   Category = "hand"
	Neck   Category = "neck"
	Ring   Category = "ring"
)

// Categories lists the slots in render order.
var Categories = []Category{Weapon, Chest, Head, Waist, Foot, Hand, Neck, Ring}

// Title is the display form used in metadata attributes.
func (c Category) Title() string {
	switch c {
	case Weapon:
		return "Weapon"
	case Chest:
		return "Chest"
	case Head:
		return "Head"
	case Waist:
		return "Waist"
	case Foot:
		return "Foot"
	case Hand:
		return "Hand"
	case Neck:
		return "Neck"
	case Ring:
		return "Ring"
	}
	return string(c)
}

type entry struct {
	name   string
	weight uint64
}

type table []entry

func (t table) total() uint64 {
	var sum uint64
	for _, e := range t {
		sum += e.weight
	}
	return sum
}

// pick maps r onto an entry in proportion to the weights.
func (t table) pick(r uint64) string {
	n := r % t.total()
	for _, e := range t {
		if n < e.weight {
			return e.name
		}
		n -= e.weight
	}
	return t[len(t)-1].name
}

// Tier is the greatness of an item.
type Tier string

const (
	TierPlain   Tier = "plain"
	TierSuffix  Tier = "suffix"
	TierNamed   Tier = "named"
	TierNamedUp Tier = "named+1"
)

var tiers = table{
	{string(TierPlain), 15},
	{string(TierSuffix), 4},
	{string(TierNamed), 1},
	{string(TierNamedUp), 1},
}

var baseItems = map[Category]table{
	Weapon: {
		{"Warhammer", 3}, {"Quarterstaff", 3}, {"Maul", 3}, {"Mace", 3},
		{"Club", 4}, {"Katana", 2}, {"Falchion", 2}, {"Scimitar", 2},
		{"Long Sword", 2}, {"Short Sword", 4}, {"Ghost Wand", 1}, {"Grave Wand", 1},
		{"Bone Wand", 2}, {"Wand", 3}, {"Grimoire", 1}, {"Chronicle", 1},
		{"Tome", 2}, {"Book", 3},
	},
	Chest: {
		{"Divine Robe", 1}, {"Silk Robe", 2}, {"Linen Robe", 3}, {"Robe", 4},
		{"Shirt", 4}, {"Demon Husk", 1}, {"Dragonskin Armor", 1},
		{"Studded Leather Armor", 2}, {"Hard Leather Armor", 3}, {"Leather Armor", 4},
		{"Holy Chestplate", 1}, {"Ornate Chestplate", 2}, {"Plate Mail", 3},
		{"Chain Mail", 3}, {"Ring Mail", 4},
	},
	Head: {
		{"Ancient Helm", 1}, {"Ornate Helm", 2}, {"Great Helm", 3}, {"Full Helm", 3},
		{"Helm", 4}, {"Demon Crown", 1}, {"Dragon's Crown", 1}, {"War Cap", 3},
		{"Leather Cap", 4}, {"Cap", 4}, {"Crown", 1}, {"Divine Hood", 1},
		{"Silk Hood", 2}, {"Linen Hood", 3}, {"Hood", 4},
	},
	Waist: {
		{"Ornate Belt", 2}, {"War Belt", 3}, {"Plated Belt", 3}, {"Mesh Belt", 4},
		{"Heavy Belt", 4}, {"Demonhide Belt", 1}, {"Dragonskin Belt", 1},
		{"Studded Leather Belt", 2}, {"Hard Leather Belt", 3}, {"Leather Belt", 4},
		{"Brightsilk Sash", 1}, {"Silk Sash", 2}, {"Wool Sash", 3},
		{"Linen Sash", 3}, {"Sash", 4},
	},
	Foot: {
		{"Holy Greaves", 1}, {"Ornate Greaves", 2}, {"Greaves", 3}, {"Chain Boots", 3},
		{"Heavy Boots", 4}, {"Demonhide Boots", 1}, {"Dragonskin Boots", 1},
		{"Studded Leather Boots", 2}, {"Hard Leather Boots", 3}, {"Leather Boots", 4},
		{"Divine Slippers", 1}, {"Silk Slippers", 2}, {"Wool Shoes", 3},
		{"Linen Shoes", 3}, {"Shoes", 4},
	},
	Hand: {
		{"Holy Gauntlets", 1}, {"Ornate Gauntlets", 2}, {"Gauntlets", 3},
		{"Chain Gloves", 3}, {"Heavy Gloves", 4}, {"Demon's Hands", 1},
		{"Dragonskin Gloves", 1}, {"Studded Leather Gloves", 2},
		{"Hard Leather Gloves", 3}, {"Leather Gloves", 4}, {"Divine Gloves", 1},
		{"Silk Gloves", 2}, {"Wool Gloves", 3}, {"Linen Gloves", 3}, {"Gloves", 4},
	},
	Neck: {
		{"Necklace", 3}, {"Amulet", 2}, {"Pendant", 1},
	},
	Ring: {
		{"Gold Ring", 1}, {"Silver Ring", 2}, {"Bronze Ring", 3},
		{"Platinum Ring", 1}, {"Titanium Ring", 1},
	},
}

var suffixes = table{
	{"of Power", 3}, {"of Giants", 3}, {"of Titans", 2}, {"of Skill", 3},
	{"of Perfection", 1}, {"of Brilliance", 2}, {"of Enlightenment", 1},
	{"of Protection", 3}, {"of Anger", 3}, {"of Rage", 2}, {"of Fury", 2},
	{"of Vitriol", 2}, {"of the Fox", 2}, {"of Detection", 3},
	{"of Reflection", 2}, {"of the Twins", 1},
}

var namePrefixes = table{
	{"Agony", 2}, {"Apocalypse", 1}, {"Armageddon", 1}, {"Beast", 2}, {"Behemoth", 1},
	{"Blight", 2}, {"Blood", 2}, {"Bramble", 2}, {"Brimstone", 1}, {"Brood", 2},
	{"Carrion", 2}, {"Cataclysm", 1}, {"Chimeric", 1}, {"Corpse", 2}, {"Corruption", 2},
	{"Damnation", 1}, {"Death", 2}, {"Demon", 2}, {"Dire", 2}, {"Dragon", 1},
	{"Dread", 2}, {"Doom", 2}, {"Dusk", 2}, {"Eagle", 2}, {"Empyrean", 1},
	{"Fate", 2}, {"Foe", 2}, {"Gale", 2}, {"Ghoul", 2}, {"Gloom", 2},
	{"Glyph", 2}, {"Golem", 2}, {"Grim", 2}, {"Hate", 2}, {"Havoc", 2},
	{"Honour", 2}, {"Horror", 2}, {"Hypnotic", 1}, {"Kraken", 1}, {"Loath", 2},
	{"Maelstrom", 1}, {"Mind", 2}, {"Miracle", 1}, {"Morbid", 2}, {"Oblivion", 1},
	{"Onslaught", 2}, {"Pain", 2}, {"Pandemonium", 1}, {"Phoenix", 1}, {"Plague", 2},
	{"Rage", 2}, {"Rapture", 1}, {"Rune", 2}, {"Skull", 2}, {"Sol", 1},
	{"Soul", 2}, {"Sorrow", 2}, {"Spirit", 2}, {"Storm", 2}, {"Tempest", 1},
	{"Torment", 2}, {"Vengeance", 2}, {"Victory", 1}, {"Viper", 2}, {"Vortex", 1},
	{"Woe", 2}, {"Wrath", 2}, {"Light's", 1}, {"Shimmering", 1},
}

var nameSuffixes = table{
	{"Bane", 3}, {"Root", 3}, {"Bite", 3}, {"Song", 2}, {"Roar", 2},
	{"Grasp", 3}, {"Instrument", 1}, {"Glow", 2}, {"Bender", 2}, {"Shadow", 2},
	{"Whisper", 2}, {"Shout", 2}, {"Growl", 2}, {"Tear", 2}, {"Peak", 1},
	{"Form", 2}, {"Sun", 1}, {"Moon", 1},
}
