package diag

// Code is a stable message identifier used by downstream reporting.
type Code string

// Sequence translator codes.
const (
	TranslatorTooShort           Code = "Translator-1"
	TranslatorCodonStartNotOne   Code = "Translator-3"
	TranslatorExceptionPartial   Code = "Translator-4"
	TranslatorExceptionNearStart Code = "Translator-8"
	TranslatorInvalidException   Code = "Translator-9"
	TranslatorShorterThanCodon   Code = "Translator-10"
	TranslatorNonMultipleOfThree Code = "Translator-11"
	TranslatorOnlyStopCodon      Code = "Translator-12"
	TranslatorMultipleStopCodons Code = "Translator-13"
	TranslatorStopCodon3Partial  Code = "Translator-14"
	TranslatorNoStopCodon        Code = "Translator-15"
	TranslatorRightPartialCodon  Code = "Translator-16"
	TranslatorInternalStopCodon  Code = "Translator-17"
	TranslatorNoStartCodon       Code = "Translator-18"
	TranslatorAmbiguousBases     Code = "Translator-20"
)

// Coding feature translator codes.
const (
	CDSInvalidTranslExcept Code = "CDSTranslator-1"
	CDSPseudoTranslation   Code = "CDSTranslator-2"
	CDSTranslationMismatch Code = "CDSTranslator-3"
	CDSInvalidCodon        Code = "CDSTranslator-4"
	CDSNoSequence          Code = "CDSTranslator-5"
	CDSInvalidTable        Code = "CDSTranslator-6"
	CDSExceptionOutOfRange Code = "CDSTranslator-7"
)

// Fix strategy keys, one per repair.
const (
	FixNoStartCodonMake5Partial           Code = "fixNoStartCodonMake5Partial"
	FixValidStopCodonRemove3Partial       Code = "fixValidStopCodonRemove3Partial"
	FixNoStopCodonMake3Partial            Code = "fixNoStopCodonMake3Partial"
	FixInternalStopCodonMakePseudo        Code = "fixInternalStopCodonMakePseudo"
	FixCodonStartNotOneMake5Partial       Code = "fixCodonStartNotOneMake5Partial"
	FixNonMultipleOfThreeMake3And5Partial Code = "fixNonMultipleOfThreeMake3And5Partial"
)

var templates = map[Code]string{
	TranslatorTooShort:           "The sequence is %d bases long, too short to translate, and the feature is not 5' partial.",
	TranslatorCodonStartNotOne:   "The codon start is %d but the feature is not 5' partial.",
	TranslatorExceptionPartial:   "The translation exception at %d..%d covers a partial codon that is not the complete 3' end of the feature.",
	TranslatorExceptionNearStart: "The translation exception at %d..%d begins before the codon start %d.",
	TranslatorInvalidException:   "Invalid translation configuration: %s.",
	TranslatorShorterThanCodon:   "The sequence is too short to contain an amino acid (%d bases after codon start) and the feature is not 3' partial.",
	TranslatorNonMultipleOfThree: "The sequence length after codon start (%d) is not a multiple of three and the feature is not 3' partial.",
	TranslatorOnlyStopCodon:      "The coding region consists only of a stop codon.",
	TranslatorMultipleStopCodons: "The coding region ends with %d stop codons.",
	TranslatorStopCodon3Partial:  "A stop codon is present at the 3' end but the feature is 3' partial.",
	TranslatorNoStopCodon:        "No stop codon at the 3' end and the feature is not 3' partial.",
	TranslatorRightPartialCodon:  "The 3' partial codon %q is not allowed when only the 3' end is partial.",
	TranslatorInternalStopCodon:  "Internal stop codon at position %d.",
	TranslatorNoStartCodon:       "The first codon %q is not a start codon for translation table %d.",
	TranslatorAmbiguousBases:     "The translation cannot be determined: %s.",

	CDSInvalidTranslExcept: "Invalid /transl_except %q: %v.",
	CDSPseudoTranslation:   "Pseudo feature has a /translation qualifier.",
	CDSTranslationMismatch: "The conceptual translation %q differs from the declared translation %q.",
	CDSInvalidCodon:        "Invalid /codon %q: %v.",
	CDSNoSequence:          "The feature has no sequence.",
	CDSInvalidTable:        "Invalid translation table %d.",
	CDSExceptionOutOfRange: "The translation exception at %d..%d lies outside the feature location.",

	FixNoStartCodonMake5Partial:           "No start codon: the feature was made 5' partial.",
	FixValidStopCodonRemove3Partial:       "Valid stop codon: 3' partiality was removed.",
	FixNoStopCodonMake3Partial:            "No stop codon: the feature was made 3' partial.",
	FixInternalStopCodonMakePseudo:        "Internal stop codon: the feature was made pseudo and its translation removed.",
	FixCodonStartNotOneMake5Partial:       "Codon start is not 1: the feature was made 5' partial.",
	FixNonMultipleOfThreeMake3And5Partial: "Length is not a multiple of three: the feature was made 3' and 5' partial.",
}

// Template returns the raw message template for a code.
func Template(code Code) (string, bool) {
	t, ok := templates[code]
	return t, ok
}
