package extraction

// ParseExtraction is exported for testing
var ParseExtraction = parseExtraction

// NormalizePersonName is exported for testing
var NormalizePersonName = normalizePersonName

// BuildPersonNameInput is exported for testing
var BuildPersonNameInput = buildPersonNameInput

// ExtractionTemperature is exported for testing
const ExtractionTemperature = extractionTemperature
