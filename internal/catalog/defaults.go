package catalog

// defaultOrder fixes the canonical category iteration order.
var defaultOrder = []Category{
	CategoryAccommodation,
	CategoryEducation,
	CategoryEntertainment,
	CategoryFinancial,
	CategoryFitness,
	CategoryFood,
	CategoryGovernment,
	CategoryHealth,
	CategoryOther,
	CategoryParks,
	CategoryReligious,
	CategoryShopping,
	CategoryTransport,
}

// defaultWeights holds the per-category criteria weights. Each weight is a
// percentage applied to the criterion's raw 0-100 value; vectors are tuned per
// category and do not all sum to exactly 100.
var defaultWeights = map[Category]WeightVector{
	CategoryAccommodation: {
		CriterionPopulationDensity: 15.0, CriterionFootfall: 20.0, CriterionTransit: 12.0,
		CriterionTraffic: 5.0, CriterionRentValue: 8.0, CriterionParking: 8.0,
		CriterionNightActivity: 5.0, CriterionWalkability: 8.0, CriterionPOISynergy: 8.0,
		CriterionSafety: 6.0,
	},
	CategoryEducation: {
		CriterionPopulationDensity: 28.0, CriterionFootfall: 10.0, CriterionTransit: 12.0,
		CriterionTraffic: 8.0, CriterionRentValue: 8.0, CriterionParking: 15.0,
		CriterionNightActivity: 0.0, CriterionWalkability: 5.0, CriterionPOISynergy: 5.0,
		CriterionSafety: 5.0,
	},
	CategoryEntertainment: {
		CriterionPopulationDensity: 20.0, CriterionFootfall: 25.0, CriterionTransit: 10.0,
		CriterionTraffic: 5.0, CriterionRentValue: 3.0, CriterionParking: 8.0,
		CriterionNightActivity: 15.0, CriterionWalkability: 8.0, CriterionPOISynergy: 2.0,
		CriterionSafety: 1.0,
	},
	CategoryFinancial: {
		CriterionPopulationDensity: 20.0, CriterionFootfall: 5.0, CriterionTransit: 12.0,
		CriterionTraffic: 8.0, CriterionRentValue: 15.0, CriterionParking: 8.0,
		CriterionNightActivity: 0.0, CriterionWalkability: 8.0, CriterionPOISynergy: 12.0,
		CriterionSafety: 4.0,
	},
	CategoryFitness: {
		CriterionPopulationDensity: 25.0, CriterionFootfall: 20.0, CriterionTransit: 8.0,
		CriterionTraffic: 3.0, CriterionRentValue: 5.0, CriterionParking: 10.0,
		CriterionNightActivity: 8.0, CriterionWalkability: 10.0, CriterionPOISynergy: 5.0,
		CriterionSafety: 3.0,
	},
	CategoryFood: {
		CriterionPopulationDensity: 20.0, CriterionFootfall: 30.0, CriterionTransit: 5.0,
		CriterionTraffic: 3.0, CriterionRentValue: 3.0, CriterionParking: 5.0,
		CriterionNightActivity: 15.0, CriterionWalkability: 12.0, CriterionPOISynergy: 3.0,
		CriterionSafety: 2.0,
	},
	CategoryGovernment: {
		CriterionPopulationDensity: 25.0, CriterionFootfall: 10.0, CriterionTransit: 15.0,
		CriterionTraffic: 8.0, CriterionRentValue: 3.0, CriterionParking: 12.0,
		CriterionNightActivity: 0.0, CriterionWalkability: 5.0, CriterionPOISynergy: 8.0,
		CriterionSafety: 2.0,
	},
	CategoryHealth: {
		CriterionPopulationDensity: 30.0, CriterionFootfall: 15.0, CriterionTransit: 10.0,
		CriterionTraffic: 3.0, CriterionRentValue: 5.0, CriterionParking: 12.0,
		CriterionNightActivity: 0.0, CriterionWalkability: 8.0, CriterionPOISynergy: 7.0,
		CriterionSafety: 5.0,
	},
	// Uniform fallback vector: every unknown category scores all criteria equally.
	CategoryOther: {
		CriterionPopulationDensity: 9.09, CriterionFootfall: 9.09, CriterionTransit: 9.09,
		CriterionTraffic: 9.09, CriterionRentValue: 9.09, CriterionParking: 9.09,
		CriterionNightActivity: 9.09, CriterionWalkability: 9.09, CriterionPOISynergy: 9.09,
		CriterionSafety: 9.09,
	},
	CategoryParks: {
		CriterionPopulationDensity: 25.0, CriterionFootfall: 20.0, CriterionTransit: 12.0,
		CriterionTraffic: 3.0, CriterionRentValue: 5.0, CriterionParking: 10.0,
		CriterionNightActivity: 2.0, CriterionWalkability: 12.0, CriterionPOISynergy: 5.0,
		CriterionSafety: 6.0,
	},
	CategoryReligious: {
		CriterionPopulationDensity: 28.0, CriterionFootfall: 15.0, CriterionTransit: 10.0,
		CriterionTraffic: 3.0, CriterionRentValue: 3.0, CriterionParking: 8.0,
		CriterionNightActivity: 5.0, CriterionWalkability: 8.0, CriterionPOISynergy: 5.0,
		CriterionSafety: 5.0,
	},
	CategoryShopping: {
		CriterionPopulationDensity: 25.0, CriterionFootfall: 25.0, CriterionTransit: 8.0,
		CriterionTraffic: 5.0, CriterionRentValue: 5.0, CriterionParking: 10.0,
		CriterionNightActivity: 5.0, CriterionWalkability: 10.0, CriterionPOISynergy: 2.0,
		CriterionSafety: 2.0,
	},
	CategoryTransport: {
		CriterionPopulationDensity: 15.0, CriterionFootfall: 10.0, CriterionTransit: 15.0,
		CriterionTraffic: 25.0, CriterionRentValue: 5.0, CriterionParking: 10.0,
		CriterionNightActivity: 3.0, CriterionWalkability: 5.0, CriterionPOISynergy: 5.0,
		CriterionSafety: 2.0,
	},
}

// defaultComplementary is the broad per-category complementary list used for
// ecosystem counting during ranking.
var defaultComplementary = map[Category][]Category{
	CategoryFood:          {CategoryShopping, CategoryEntertainment, CategoryParks, CategoryTransport, CategoryFitness},
	CategoryFitness:       {CategoryFood, CategoryHealth, CategoryParks, CategoryShopping, CategoryAccommodation},
	CategoryHealth:        {CategoryFitness, CategoryFood, CategoryShopping, CategoryTransport, CategoryAccommodation},
	CategoryShopping:      {CategoryFood, CategoryEntertainment, CategoryTransport, CategoryFitness, CategoryAccommodation},
	CategoryEntertainment: {CategoryFood, CategoryShopping, CategoryTransport, CategoryAccommodation, CategoryParks},
	CategoryEducation:     {CategoryFood, CategoryShopping, CategoryTransport, CategoryAccommodation, CategoryParks},
	CategoryAccommodation: {CategoryFood, CategoryEntertainment, CategoryShopping, CategoryTransport, CategoryParks},
	CategoryTransport:     {CategoryFood, CategoryShopping, CategoryAccommodation, CategoryEntertainment, CategoryFinancial},
	CategoryFinancial:     {CategoryShopping, CategoryFood, CategoryGovernment, CategoryTransport, CategoryAccommodation},
	CategoryGovernment:    {CategoryFinancial, CategoryFood, CategoryTransport, CategoryShopping, CategoryParks},
	CategoryParks:         {CategoryFood, CategoryFitness, CategoryEntertainment, CategoryShopping, CategoryAccommodation},
	CategoryReligious:     {CategoryFood, CategoryShopping, CategoryParks, CategoryTransport, CategoryAccommodation},
	CategoryOther:         {CategoryFood, CategoryShopping, CategoryTransport},
}

// defaultAnchorComplements is the tighter co-occurrence table consulted by the
// gap analyzer for categories that dominate an area's business mix.
var defaultAnchorComplements = map[Category][]Category{
	CategoryFood:          {CategoryShopping, CategoryEntertainment, CategoryFitness},
	CategoryShopping:      {CategoryFood, CategoryEntertainment, CategoryFinancial},
	CategoryHealth:        {CategoryFitness, CategoryFood, CategoryShopping},
	CategoryEducation:     {CategoryFood, CategoryShopping, CategoryTransport},
	CategoryFitness:       {CategoryHealth, CategoryFood, CategoryShopping},
	CategoryEntertainment: {CategoryFood, CategoryShopping, CategoryTransport},
	CategoryAccommodation: {CategoryFood, CategoryTransport, CategoryEntertainment},
	CategoryFinancial:     {CategoryShopping, CategoryFood, CategoryEducation},
	CategoryTransport:     {CategoryFood, CategoryShopping, CategoryAccommodation},
	CategoryParks:         {CategoryFood, CategoryFitness, CategoryEntertainment},
	CategoryReligious:     {CategoryFood, CategoryShopping, CategoryAccommodation},
	CategoryGovernment:    {CategoryFood, CategoryFinancial, CategoryShopping},
	CategoryOther:         {CategoryFood, CategoryShopping, CategoryEntertainment},
}

// defaultExamples maps each category to concrete business ideas surfaced in
// recommendations.
var defaultExamples = map[Category][]string{
	CategoryFood:          {"Cafe", "Restaurant", "Bakery", "Juice Bar", "Cloud Kitchen", "Food Truck"},
	CategoryShopping:      {"Clothing Store", "Electronics Shop", "Grocery Store", "Bookstore", "Gift Shop"},
	CategoryHealth:        {"Clinic", "Pharmacy", "Diagnostic Lab", "Dental Clinic", "Physiotherapy Center"},
	CategoryEducation:     {"Coaching Center", "Language School", "Music Classes", "Computer Training", "Preschool"},
	CategoryFitness:       {"Gym", "Yoga Studio", "Spa", "Salon", "Wellness Center"},
	CategoryEntertainment: {"Gaming Zone", "Bowling Alley", "Escape Room", "Art Studio", "Dance Studio"},
	CategoryAccommodation: {"Boutique Hotel", "Guest House", "Co-living Space", "Service Apartment"},
	CategoryFinancial:     {"CA Office", "Insurance Agency", "Tax Consultant", "Legal Consultancy"},
	CategoryTransport:     {"Car Wash", "Bike Service", "Auto Parts Shop", "Parking Facility"},
	CategoryParks:         {"Sports Academy", "Adventure Sports", "Outdoor Gym"},
	CategoryReligious:     {"Meditation Center", "Yoga Retreat"},
	CategoryGovernment:    {"Document Services", "Notary"},
	CategoryOther:         {"Co-working Space", "Photography Studio", "Pet Shop", "Laundry Service"},
}
