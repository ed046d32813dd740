package intent

// BaseTable is a hand-authored intent → trigger-word table.
type BaseTable map[string][]string

// DefaultBaseTable returns a fresh copy of the built-in Hindi/English keyword
// table. Callers may modify the returned value.
func DefaultBaseTable() BaseTable {
	table := make(BaseTable, len(baseKeywords))
	for label, words := range baseKeywords {
		table[label] = append([]string(nil), words...)
	}
	return table
}

// Words are stored pre-folded; the builder folds them again anyway so entries
// added here with upper case or decomposed forms still work.
var baseKeywords = map[string][]string{
	IntentSeedInquiry: {
		"बीज", "बीजों", "बीजाई", "बुवाई", "बुआई", "बोना", "बोएं", "बोने", "किस्म", "किस्में",
		"वैरायटी", "प्रजाति", "नर्सरी", "अंकुरण",
		"seed", "seeds", "variety", "varieties", "sowing", "sow", "germination", "nursery",
	},
	IntentFertilizerAdvice: {
		"खाद", "उर्वरक", "यूरिया", "डीएपी", "पोटाश", "जैविक", "वर्मीकम्पोस्ट", "कम्पोस्ट",
		"गोबर", "नाइट्रोजन", "फास्फोरस", "जिंक", "पोषक",
		"fertilizer", "fertiliser", "fertilizers", "manure", "urea", "dap", "npk", "compost",
		"nitrogen", "potash", "zinc", "nutrient", "nutrients",
	},
	IntentCropDisease: {
		"रोग", "बीमारी", "बीमार", "झुलसा", "सड़न", "पीली", "पीले", "पत्ती", "पत्तियां", "धब्बे",
		"फफूंद", "मुरझा", "उकठा",
		"disease", "diseases", "blight", "rust", "fungus", "fungal", "wilt", "rot", "yellowing",
		"spots", "infection",
	},
	IntentPestControl: {
		"कीट", "कीड़े", "कीड़ा", "इल्ली", "सुंडी", "माहू", "दीमक", "टिड्डी", "कीटनाशक", "छिड़काव",
		"दवा",
		"pest", "pests", "insect", "insects", "pesticide", "insecticide", "spray", "aphid",
		"aphids", "termite", "termites", "locust", "caterpillar",
	},
	IntentMarketPrice: {
		"भाव", "दाम", "कीमत", "मंडी", "बाजार", "रेट", "बेचना", "बेचें", "बिक्री", "समर्थन",
		"msp", "price", "prices", "rate", "rates", "market", "mandi", "sell", "selling",
	},
	IntentWeatherInfo: {
		"मौसम", "बारिश", "वर्षा", "बरसात", "तापमान", "ठंड", "गर्मी", "पाला", "ओले", "आंधी",
		"धूप", "मानसून",
		"weather", "rain", "rainfall", "temperature", "forecast", "frost", "monsoon", "hail",
	},
	IntentIrrigationAdvice: {
		"सिंचाई", "पानी", "नहर", "ट्यूबवेल", "ड्रिप", "स्प्रिंकलर", "फव्वारा", "नमी",
		"irrigation", "irrigate", "water", "watering", "drip", "sprinkler", "canal", "borewell",
	},
	IntentSoilHealth: {
		"मिट्टी", "मृदा", "परीक्षण", "उपजाऊ", "उर्वरता", "क्षारीय", "अम्लीय", "पीएच",
		"soil", "ph", "fertility", "alkaline", "acidic", "erosion",
	},
	IntentGovernmentScheme: {
		"योजना", "योजनाओं", "सब्सिडी", "अनुदान", "सरकारी", "सरकार", "बीमा", "ऋण", "लोन",
		"केसीसी",
		"scheme", "schemes", "subsidy", "insurance", "loan", "kcc", "pmkisan",
	},
	IntentGeneralFarming: {
		"खेती", "फसल", "फसलों", "किसान", "खेत", "उत्पादन", "पैदावार", "उपज", "कटाई",
		"farming", "farm", "farmer", "agriculture", "crop", "crops", "yield", "harvest",
	},
}
