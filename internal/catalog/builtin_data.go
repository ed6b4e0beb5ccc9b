package catalog

var builtinDistricts = []string{
	"Ariyalur", "Chengalpattu", "Chennai", "Coimbatore", "Cuddalore", "Dharmapuri",
	"Dindigul", "Erode", "Kallakurichi", "Kanchipuram", "Kanyakumari", "Karur",
	"Krishnagiri", "Madurai", "Mayiladuthurai", "Nagapattinam", "Namakkal", "Nilgiris",
	"Perambalur", "Pudukkottai", "Ramanathapuram", "Ranipet", "Salem", "Sivaganga",
	"Tenkasi", "Thanjavur", "Theni", "Thoothukudi", "Tiruchirappalli", "Tirunelveli",
	"Tirupathur", "Tiruppur", "Tiruvallur", "Tiruvannamalai", "Tiruvarur", "Vellore",
	"Viluppuram", "Virudhunagar",
}

var builtinCrops = []builtinCrop{
	{
		Name:             "Tomato",
		Category:         "vegetable",
		Suitability:      95,
		EstimatedYield:   "45-55 tonnes/hectare",
		HarvestDate:      "90-100 days from planting",
		MarketPrice:      "₹25-35/kg",
		ExpectedRevenue:  "₹11-19 lakhs/hectare",
		SoilRequirements: "Well-drained loamy soil, pH 6.0-7.0",
		WaterNeeds:       "Medium to high (500-800mm)",
		Temperature:      "20-27°C optimal",
	},
	{
		Name:             "Chilli",
		Category:         "vegetable",
		Suitability:      92,
		EstimatedYield:   "2-3 tonnes/hectare",
		HarvestDate:      "150-180 days from planting",
		MarketPrice:      "₹80-120/kg",
		ExpectedRevenue:  "₹1.6-3.6 lakhs/hectare",
		SoilRequirements: "Sandy loam to clay loam, pH 6.5-7.5",
		WaterNeeds:       "Medium (600-1000mm)",
		Temperature:      "20-30°C optimal",
	},
	{
		Name:             "Potato",
		Category:         "vegetable",
		Suitability:      89,
		EstimatedYield:   "25-30 tonnes/hectare",
		HarvestDate:      "90-120 days from planting",
		MarketPrice:      "₹15-25/kg",
		ExpectedRevenue:  "₹3.75-7.5 lakhs/hectare",
		SoilRequirements: "Well-drained sandy loam, pH 5.5-6.5",
		WaterNeeds:       "Medium (500-700mm)",
		Temperature:      "15-25°C optimal",
	},
	{
		Name:             "Onion",
		Category:         "vegetable",
		Suitability:      87,
		EstimatedYield:   "20-25 tonnes/hectare",
		HarvestDate:      "120-150 days from planting",
		MarketPrice:      "₹18-30/kg",
		ExpectedRevenue:  "₹3.6-7.5 lakhs/hectare",
		SoilRequirements: "Sandy loam to clay loam, pH 6.0-7.5",
		WaterNeeds:       "Medium (400-600mm)",
		Temperature:      "13-24°C optimal",
	},
	{
		Name:             "Cabbage",
		Category:         "vegetable",
		Suitability:      85,
		EstimatedYield:   "35-40 tonnes/hectare",
		HarvestDate:      "90-120 days from planting",
		MarketPrice:      "₹12-18/kg",
		ExpectedRevenue:  "₹4.2-7.2 lakhs/hectare",
		SoilRequirements: "Well-drained loamy soil, pH 5.5-6.5",
		WaterNeeds:       "Medium to high (450-600mm)",
		Temperature:      "15-25°C optimal",
	},
	{
		Name:             "Cauliflower",
		Category:         "vegetable",
		Suitability:      84,
		EstimatedYield:   "20-25 tonnes/hectare",
		HarvestDate:      "90-120 days from planting",
		MarketPrice:      "₹15-25/kg",
		ExpectedRevenue:  "₹3-6.25 lakhs/hectare",
		SoilRequirements: "Well-drained loamy soil, pH 5.5-6.5",
		WaterNeeds:       "Medium to high (450-600mm)",
		Temperature:      "15-20°C optimal",
	},
	{
		Name:             "Brinjal (Eggplant)",
		Category:         "vegetable",
		Suitability:      88,
		EstimatedYield:   "25-30 tonnes/hectare",
		HarvestDate:      "120-150 days from planting",
		MarketPrice:      "₹20-30/kg",
		ExpectedRevenue:  "₹5-9 lakhs/hectare",
		SoilRequirements: "Sandy loam to clay loam, pH 5.5-6.5",
		WaterNeeds:       "Medium (500-750mm)",
		Temperature:      "20-30°C optimal",
	},
	{
		Name:             "Okra (Ladies Finger)",
		Category:         "vegetable",
		Suitability:      86,
		EstimatedYield:   "10-12 tonnes/hectare",
		HarvestDate:      "50-60 days from planting",
		MarketPrice:      "₹25-40/kg",
		ExpectedRevenue:  "₹2.5-4.8 lakhs/hectare",
		SoilRequirements: "Well-drained loamy soil, pH 6.0-6.8",
		WaterNeeds:       "Medium (500-700mm)",
		Temperature:      "25-35°C optimal",
	},
	{
		Name:             "Paddy (Rice)",
		Category:         "cereal",
		Suitability:      94,
		EstimatedYield:   "5-6 tonnes/hectare",
		HarvestDate:      "120-150 days from planting",
		MarketPrice:      "₹20-25/kg",
		ExpectedRevenue:  "₹1-1.5 lakhs/hectare",
		SoilRequirements: "Clay loam to clayey soil, pH 5.5-7.0",
		WaterNeeds:       "High (1200-1500mm)",
		Temperature:      "20-35°C optimal",
	},
	{
		Name:             "Maize (Corn)",
		Category:         "cereal",
		Suitability:      90,
		EstimatedYield:   "6-8 tonnes/hectare",
		HarvestDate:      "90-120 days from planting",
		MarketPrice:      "₹15-20/kg",
		ExpectedRevenue:  "₹0.9-1.6 lakhs/hectare",
		SoilRequirements: "Well-drained loamy soil, pH 5.5-7.0",
		WaterNeeds:       "Medium (500-800mm)",
		Temperature:      "21-30°C optimal",
	},
	{
		Name:             "Finger Millet (Ragi)",
		Category:         "cereal",
		Suitability:      83,
		EstimatedYield:   "2-3 tonnes/hectare",
		HarvestDate:      "120-130 days from planting",
		MarketPrice:      "₹30-40/kg",
		ExpectedRevenue:  "₹0.6-1.2 lakhs/hectare",
		SoilRequirements: "Red loamy to black soil, pH 5.0-8.2",
		WaterNeeds:       "Low to medium (300-500mm)",
		Temperature:      "12-27°C optimal",
	},
	{
		Name:             "Pearl Millet (Bajra)",
		Category:         "cereal",
		Suitability:      81,
		EstimatedYield:   "1.5-2.5 tonnes/hectare",
		HarvestDate:      "75-90 days from planting",
		MarketPrice:      "₹25-35/kg",
		ExpectedRevenue:  "₹0.375-0.875 lakhs/hectare",
		SoilRequirements: "Sandy loam, pH 6.5-7.5",
		WaterNeeds:       "Low (400-600mm)",
		Temperature:      "25-35°C optimal",
	},
	{
		Name:             "Green Gram (Moong)",
		Category:         "pulse",
		Suitability:      85,
		EstimatedYield:   "0.8-1.2 tonnes/hectare",
		HarvestDate:      "60-75 days from planting",
		MarketPrice:      "₹70-90/kg",
		ExpectedRevenue:  "₹0.56-1.08 lakhs/hectare",
		SoilRequirements: "Sandy loam to clayey loam, pH 6.2-7.2",
		WaterNeeds:       "Low to medium (350-450mm)",
		Temperature:      "25-35°C optimal",
	},
	{
		Name:             "Black Gram (Urad)",
		Category:         "pulse",
		Suitability:      84,
		EstimatedYield:   "0.8-1.0 tonnes/hectare",
		HarvestDate:      "70-80 days from planting",
		MarketPrice:      "₹75-95/kg",
		ExpectedRevenue:  "₹0.6-0.95 lakhs/hectare",
		SoilRequirements: "Sandy loam to clayey loam, pH 6.5-7.8",
		WaterNeeds:       "Low to medium (350-450mm)",
		Temperature:      "25-35°C optimal",
	},
	{
		Name:             "Red Gram (Pigeon Pea)",
		Category:         "pulse",
		Suitability:      82,
		EstimatedYield:   "1.5-2.0 tonnes/hectare",
		HarvestDate:      "150-180 days from planting",
		MarketPrice:      "₹60-80/kg",
		ExpectedRevenue:  "₹0.9-1.6 lakhs/hectare",
		SoilRequirements: "Well-drained loamy soil, pH 6.0-7.5",
		WaterNeeds:       "Medium (600-900mm)",
		Temperature:      "20-30°C optimal",
	},
	{
		Name:             "Banana",
		Category:         "fruit",
		Suitability:      93,
		EstimatedYield:   "50-60 tonnes/hectare",
		HarvestDate:      "11-13 months from planting",
		MarketPrice:      "₹15-25/kg",
		ExpectedRevenue:  "₹7.5-15 lakhs/hectare",
		SoilRequirements: "Deep, well-drained loamy soil, pH 6.5-7.5",
		WaterNeeds:       "High (1500-2000mm)",
		Temperature:      "15-35°C optimal",
	},
	{
		Name:             "Papaya",
		Category:         "fruit",
		Suitability:      88,
		EstimatedYield:   "80-100 tonnes/hectare",
		HarvestDate:      "10-12 months from planting",
		MarketPrice:      "₹12-20/kg",
		ExpectedRevenue:  "₹9.6-20 lakhs/hectare",
		SoilRequirements: "Well-drained sandy loam, pH 6.0-7.0",
		WaterNeeds:       "Medium to high (1000-1500mm)",
		Temperature:      "21-33°C optimal",
	},
	{
		Name:             "Dragon Fruit",
		Category:         "fruit",
		Suitability:      86,
		EstimatedYield:   "15-20 tonnes/hectare",
		HarvestDate:      "12-18 months from planting",
		MarketPrice:      "₹100-150/kg",
		ExpectedRevenue:  "₹15-30 lakhs/hectare",
		SoilRequirements: "Well-drained sandy loam, pH 6.0-7.0",
		WaterNeeds:       "Low to medium (500-700mm)",
		Temperature:      "20-30°C optimal",
	},
	{
		Name:             "Mango",
		Category:         "fruit",
		Suitability:      90,
		EstimatedYield:   "10-15 tonnes/hectare",
		HarvestDate:      "3-4 years from planting (commercial)",
		MarketPrice:      "₹40-80/kg",
		ExpectedRevenue:  "₹4-12 lakhs/hectare",
		SoilRequirements: "Well-drained deep loamy soil, pH 5.5-7.5",
		WaterNeeds:       "Medium (750-1250mm)",
		Temperature:      "24-27°C optimal",
	},
	{
		Name:             "Gloriosa (Glory Lily)",
		Category:         "flower",
		Suitability:      83,
		EstimatedYield:   "2-3 tonnes tubers/hectare",
		HarvestDate:      "8-10 months from planting",
		MarketPrice:      "₹200-300/kg (tubers)",
		ExpectedRevenue:  "₹4-9 lakhs/hectare",
		SoilRequirements: "Well-drained red loamy soil, pH 6.0-7.5",
		WaterNeeds:       "Medium (600-900mm)",
		Temperature:      "20-30°C optimal",
	},
	{
		Name:             "Marigold",
		Category:         "flower",
		Suitability:      87,
		EstimatedYield:   "15-20 tonnes flowers/hectare",
		HarvestDate:      "60-90 days from planting",
		MarketPrice:      "₹20-30/kg",
		ExpectedRevenue:  "₹3-6 lakhs/hectare",
		SoilRequirements: "Well-drained loamy soil, pH 6.0-7.5",
		WaterNeeds:       "Medium (500-700mm)",
		Temperature:      "18-25°C optimal",
	},
	{
		Name:             "Jasmine",
		Category:         "flower",
		Suitability:      89,
		EstimatedYield:   "5-8 tonnes flowers/hectare",
		HarvestDate:      "Year-round (peak: Oct-Mar)",
		MarketPrice:      "₹100-150/kg",
		ExpectedRevenue:  "₹5-12 lakhs/hectare",
		SoilRequirements: "Well-drained loamy soil, pH 6.5-7.5",
		WaterNeeds:       "Medium to high (1000-1500mm)",
		Temperature:      "20-35°C optimal",
	},
	{
		Name:             "Sugarcane",
		Category:         "cash",
		Suitability:      91,
		EstimatedYield:   "100-120 tonnes/hectare",
		HarvestDate:      "12-18 months from planting",
		MarketPrice:      "₹3-4/kg",
		ExpectedRevenue:  "₹3-4.8 lakhs/hectare",
		SoilRequirements: "Deep loamy to clayey soil, pH 6.5-7.5",
		WaterNeeds:       "High (1500-2500mm)",
		Temperature:      "21-27°C optimal",
	},
	{
		Name:             "Cotton",
		Category:         "cash",
		Suitability:      85,
		EstimatedYield:   "2-3 tonnes/hectare",
		HarvestDate:      "150-180 days from planting",
		MarketPrice:      "₹50-70/kg",
		ExpectedRevenue:  "₹1-2.1 lakhs/hectare",
		SoilRequirements: "Deep black cotton soil, pH 6.0-8.0",
		WaterNeeds:       "Medium (500-1000mm)",
		Temperature:      "21-30°C optimal",
	},
	{
		Name:             "Groundnut",
		Category:         "cash",
		Suitability:      86,
		EstimatedYield:   "2-2.5 tonnes/hectare",
		HarvestDate:      "100-120 days from planting",
		MarketPrice:      "₹50-65/kg",
		ExpectedRevenue:  "₹1-1.625 lakhs/hectare",
		SoilRequirements: "Well-drained sandy loam, pH 6.0-6.5",
		WaterNeeds:       "Medium (500-700mm)",
		Temperature:      "20-30°C optimal",
	},
	{
		Name:             "Turmeric",
		Category:         "cash",
		Suitability:      88,
		EstimatedYield:   "25-30 tonnes/hectare",
		HarvestDate:      "7-9 months from planting",
		MarketPrice:      "₹80-120/kg",
		ExpectedRevenue:  "₹20-36 lakhs/hectare",
		SoilRequirements: "Well-drained loamy to clayey loam, pH 5.0-7.5",
		WaterNeeds:       "Medium to high (1500-2250mm)",
		Temperature:      "20-30°C optimal",
	},
}
