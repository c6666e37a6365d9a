package util

import (
	"fmt"

	"liars-server/internal/rng"
)

var adjectives = []string{
	"Sly", "Crafty", "Shifty", "Honest", "Bold", "Brazen", "Cunning", "Quiet", "Lucky", "Nervous", "Smiling",
	"Red", "Blue", "Green", "Orange", "Purple", "Velvet", "Silver", "Golden", "Grand", "Ultimate", "Prime",
	"Sneaky", "Daring", "Wary", "Gambling", "Bluffing", "Lying", "Dealing", "Shuffling", "Doubting", "Grinning",
}

var animals = []string{
	"Fox", "Cat", "Raven", "Crow", "Magpie", "Shark", "Cuckoo", "Weasel", "Lion", "Tiger", "Jackal",
	"Bear", "Possum", "Otter", "Octopus", "Chameleon", "Viper", "Cobra", "Lizard", "Coyote", "Hyena",
	"Mantis", "Eagle", "Badger", "Wolf", "Mockingbird", "Ferret", "Lynx", "Panda",
}

// random is the generator names are drawn from
var random rng.Generator = rng.Crypto{}

// GetRandomName returns a random name by combining an adjective with an animal
func GetRandomName() string {
	adjectivesIndex := random.Intn(len(adjectives))
	animalsIndex := random.Intn(len(animals))

	return fmt.Sprintf("%s %s", adjectives[adjectivesIndex], animals[animalsIndex])
}
