package native

// Symbol is the exported name of a C function in the collaborator.
type Symbol string

const (
	SymMalloc Symbol = "malloc"
	SymFree   Symbol = "free"

	SymText2Mecab Symbol = "text2mecab"

	SymMecabInitialize       Symbol = "Mecab_initialize"
	SymMecabLoad             Symbol = "Mecab_load"
	SymMecabLoadWithUserdic  Symbol = "Mecab_load_with_userdic"
	SymMecabAnalysis         Symbol = "Mecab_analysis"
	SymMecabGetFeature       Symbol = "Mecab_get_feature"
	SymMecabGetSize          Symbol = "Mecab_get_size"
	SymMecabRefresh          Symbol = "Mecab_refresh"
	SymMecabPrint            Symbol = "Mecab_print"
	SymMecabClear            Symbol = "Mecab_clear"
	SymMecabDictIndex        Symbol = "mecab_dict_index"
	SymMecab2NJD             Symbol = "mecab2njd"
	SymNJDInitialize         Symbol = "NJD_initialize"
	SymNJDClear              Symbol = "NJD_clear"
	SymNJDRefresh            Symbol = "NJD_refresh"
	SymNJDPushNode           Symbol = "NJD_push_node"
	SymNJDGetSize            Symbol = "NJD_get_size"
	SymNJDNodeInitialize     Symbol = "NJDNode_initialize"
	SymNJDSetPronunciation   Symbol = "njd_set_pronunciation"
	SymNJDSetDigit           Symbol = "njd_set_digit"
	SymNJDSetAccentType      Symbol = "njd_set_accent_type"
	SymNJDSetAccentPhrase    Symbol = "njd_set_accent_phrase"
	SymNJDSetUnvoicedVowel   Symbol = "njd_set_unvoiced_vowel"
	SymNJDSetLongVowel       Symbol = "njd_set_long_vowel"
	SymNJD2JPCommon          Symbol = "njd2jpcommon"
	SymJPCommonInitialize    Symbol = "JPCommon_initialize"
	SymJPCommonClear         Symbol = "JPCommon_clear"
	SymJPCommonRefresh       Symbol = "JPCommon_refresh"
	SymJPCommonMakeLabel     Symbol = "JPCommon_make_label"
	SymJPCommonGetLabelSize  Symbol = "JPCommon_get_label_size"
	SymJPCommonGetLabelFeats Symbol = "JPCommon_get_label_feature"
)

// Symbols lists every symbol a backend must export.
var Symbols = []Symbol{
	SymMalloc,
	SymFree,
	SymText2Mecab,
	SymMecabInitialize,
	SymMecabLoad,
	SymMecabLoadWithUserdic,
	SymMecabAnalysis,
	SymMecabGetFeature,
	SymMecabGetSize,
	SymMecabRefresh,
	SymMecabPrint,
	SymMecabClear,
	SymMecabDictIndex,
	SymMecab2NJD,
	SymNJDInitialize,
	SymNJDClear,
	SymNJDRefresh,
	SymNJDPushNode,
	SymNJDGetSize,
	SymNJDNodeInitialize,
	SymNJDSetPronunciation,
	SymNJDSetDigit,
	SymNJDSetAccentType,
	SymNJDSetAccentPhrase,
	SymNJDSetUnvoicedVowel,
	SymNJDSetLongVowel,
	SymNJD2JPCommon,
	SymJPCommonInitialize,
	SymJPCommonClear,
	SymJPCommonRefresh,
	SymJPCommonMakeLabel,
	SymJPCommonGetLabelSize,
	SymJPCommonGetLabelFeats,
}

// Missing returns the names of the symbols for which has reports false.
func Missing(has func(Symbol) bool) []string {
	var missing []string
	for _, sym := range Symbols {
		if !has(sym) {
			missing = append(missing, string(sym))
		}
	}
	return missing
}

// text2mecab_result_t
const (
	Text2MecabSuccess         int32 = 0
	Text2MecabInvalidArgument int32 = 1
	Text2MecabRangeError      int32 = 2
)
