package intent

// Category is the coarse grouping an intent label belongs to.
type Category string

const (
	CategorySeeds           Category = "seeds"
	CategoryNutrition       Category = "nutrition"
	CategoryPlantProtection Category = "plant_protection"
	CategoryMarket          Category = "market"
	CategoryWeather         Category = "weather"
	CategoryWaterManagement Category = "water_management"
	CategorySoil            Category = "soil"
	CategorySchemes         Category = "schemes"
	CategoryGeneral         Category = "general"
)

// Intent labels shipped in the base table.
const (
	IntentSeedInquiry      = "seed_inquiry"
	IntentFertilizerAdvice = "fertilizer_advice"
	IntentCropDisease      = "crop_disease"
	IntentPestControl      = "pest_control"
	IntentMarketPrice      = "market_price"
	IntentWeatherInfo      = "weather_info"
	IntentIrrigationAdvice = "irrigation_advice"
	IntentSoilHealth       = "soil_health"
	IntentGovernmentScheme = "government_scheme"
	IntentGeneralFarming   = "general_farming"
)

// DefaultCategory is returned for labels that have no explicit mapping, such
// as intents introduced only by training data.
const DefaultCategory = CategoryGeneral

// CategoryFor maps an intent label to its category. It is total: unknown
// labels get DefaultCategory.
func CategoryFor(label string) Category {
	switch label {
	case IntentSeedInquiry:
		return CategorySeeds
	case IntentFertilizerAdvice:
		return CategoryNutrition
	case IntentCropDisease, IntentPestControl:
		return CategoryPlantProtection
	case IntentMarketPrice:
		return CategoryMarket
	case IntentWeatherInfo:
		return CategoryWeather
	case IntentIrrigationAdvice:
		return CategoryWaterManagement
	case IntentSoilHealth:
		return CategorySoil
	case IntentGovernmentScheme:
		return CategorySchemes
	default:
		return DefaultCategory
	}
}
