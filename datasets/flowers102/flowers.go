// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

// Package flowers102 downloads the "Oxford Flowers 102" dataset and converts it to one
// container file per split (train, val, test).
//
// Images are resized to 256x256. Each container holds the datasets "x" (images, uint8
// shaped [N, 256, 256, 3]), "y" (int32 labels from 0 to 101) and "image_names".
//
// The dataset's home page is in https://www.robots.ox.ac.uk/~vgg/data/flowers/102/
package flowers102

// This file contains constants of the dataset, including the flowers names.

// NumLabels is 102, hence the name of the dataset being Oxford Flowers 102.
const NumLabels = 102

// ImageSize is the width and height all images are resized to.
const ImageSize = 256

var (
	// Names of all the 102 flowers in the dataset, indexed by the 0-based label.
	Names = []string{
		"pink primrose",
		"hard-leaved pocket orchid",
		"canterbury bells",
		"sweet pea",
		"english marigold",
		"tiger lily",
		"moon orchid",
		"bird of paradise",
		"monkshood",
		"globe thistle",
		"snapdragon",
		"colt's foot",
		"king protea",
		"spear thistle",
		"yellow iris",
		"globe-flower",
		"purple coneflower",
		"peruvian lily",
		"balloon flower",
		"giant white arum lily",
		"fire lily",
		"pincushion flower",
		"fritillary",
		"red ginger",
		"grape hyacinth",
		"corn poppy",
		"prince of wales feathers",
		"stemless gentian",
		"artichoke",
		"sweet william",
		"carnation",
		"garden phlox",
		"love in the mist",
		"mexican aster",
		"alpine sea holly",
		"ruby-lipped cattleya",
		"cape flower",
		"great masterwort",
		"siam tulip",
		"lenten rose",
		"barbeton daisy",
		"daffodil",
		"sword lily",
		"poinsettia",
		"bolero deep blue",
		"wallflower",
		"marigold",
		"buttercup",
		"oxeye daisy",
		"common dandelion",
		"petunia",
		"wild pansy",
		"primula",
		"sunflower",
		"pelargonium",
		"bishop of llandaff",
		"gaura",
		"geranium",
		"orange dahlia",
		"pink-yellow dahlia?",
		"cautleya spicata",
		"japanese anemone",
		"black-eyed susan",
		"silverbush",
		"californian poppy",
		"osteospermum",
		"spring crocus",
		"bearded iris",
		"windflower",
		"tree poppy",
		"gazania",
		"azalea",
		"water lily",
		"rose",
		"thorn apple",
		"morning glory",
		"passion flower",
		"lotus",
		"toad lily",
		"anthurium",
		"frangipani",
		"clematis",
		"hibiscus",
		"columbine",
		"desert-rose",
		"tree mallow",
		"magnolia",
		"cyclamen",
		"watercress",
		"canna lily",
		"hippeastrum",
		"bee balm",
		"ball moss",
		"foxglove",
		"bougainvillea",
		"camellia",
		"mallow",
		"mexican petunia",
		"bromelia",
		"blanket flower",
		"trumpet creeper",
		"blackberry lily",
	}
)
