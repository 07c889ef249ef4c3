package usecase

// RecencyPhrase is exported for testing
var RecencyPhrase = recencyPhrase

// RankMatches is exported for testing
var RankMatches = rankMatches

// EscapeSSML is exported for testing
var EscapeSSML = escapeSSML

// BuildAssistantSystemPrompt is exported for testing
var BuildAssistantSystemPrompt = (*AssistantUseCase).buildSystemPrompt

// QueryVariations is exported for testing
var QueryVariations = queryVariations

// BuildContactAnswer is exported for testing
var BuildContactAnswer = buildContactAnswer
