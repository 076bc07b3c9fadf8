package repocontants

const LANGUAGE_PREFERENCE_COLLECTION = "LanguagePreferences"
