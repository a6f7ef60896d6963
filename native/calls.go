package native

// text2mecab.h

func (l *Lib) Text2Mecab(output Ptr, size uint32, input Ptr) int32 {
	return l.callInt(SymText2Mecab, p(output), uint64(size), p(input))
}

// mecab.h

func (l *Lib) MecabInitialize(m Ptr) bool {
	return l.callBool(SymMecabInitialize, p(m))
}

func (l *Lib) MecabLoad(m, dicDir Ptr) bool {
	return l.callBool(SymMecabLoad, p(m), p(dicDir))
}

// MecabLoadWithUserdic passes userdic as NULL when it is zero.
func (l *Lib) MecabLoadWithUserdic(m, dicDir, userdic Ptr) bool {
	return l.callBool(SymMecabLoadWithUserdic, p(m), p(dicDir), p(userdic))
}

func (l *Lib) MecabAnalysis(m, str Ptr) bool {
	return l.callBool(SymMecabAnalysis, p(m), p(str))
}

func (l *Lib) MecabGetFeature(m Ptr) Ptr {
	return l.callPtr(SymMecabGetFeature, p(m))
}

func (l *Lib) MecabGetSize(m Ptr) int32 {
	return l.callInt(SymMecabGetSize, p(m))
}

func (l *Lib) MecabRefresh(m Ptr) bool {
	return l.callBool(SymMecabRefresh, p(m))
}

func (l *Lib) MecabPrint(m Ptr) bool {
	return l.callBool(SymMecabPrint, p(m))
}

func (l *Lib) MecabClear(m Ptr) bool {
	return l.callBool(SymMecabClear, p(m))
}

func (l *Lib) MecabDictIndex(argc int32, argv Ptr) int32 {
	return l.callInt(SymMecabDictIndex, i(argc), p(argv))
}

// mecab2njd.h

func (l *Lib) Mecab2NJD(njd, feature Ptr, size int32) {
	l.call(SymMecab2NJD, p(njd), p(feature), i(size))
}

// njd.h

func (l *Lib) NJDInitialize(njd Ptr) { l.call(SymNJDInitialize, p(njd)) }

func (l *Lib) NJDClear(njd Ptr) { l.call(SymNJDClear, p(njd)) }

func (l *Lib) NJDRefresh(njd Ptr) { l.call(SymNJDRefresh, p(njd)) }

func (l *Lib) NJDPushNode(njd, node Ptr) { l.call(SymNJDPushNode, p(njd), p(node)) }

func (l *Lib) NJDGetSize(njd Ptr) int32 { return l.callInt(SymNJDGetSize, p(njd)) }

func (l *Lib) NJDNodeInitialize(node Ptr) { l.call(SymNJDNodeInitialize, p(node)) }

func (l *Lib) NJDSetPronunciation(njd Ptr) { l.call(SymNJDSetPronunciation, p(njd)) }

func (l *Lib) NJDSetDigit(njd Ptr) { l.call(SymNJDSetDigit, p(njd)) }

func (l *Lib) NJDSetAccentType(njd Ptr) { l.call(SymNJDSetAccentType, p(njd)) }

func (l *Lib) NJDSetAccentPhrase(njd Ptr) { l.call(SymNJDSetAccentPhrase, p(njd)) }

func (l *Lib) NJDSetUnvoicedVowel(njd Ptr) { l.call(SymNJDSetUnvoicedVowel, p(njd)) }

func (l *Lib) NJDSetLongVowel(njd Ptr) { l.call(SymNJDSetLongVowel, p(njd)) }

// njd2jpcommon.h

func (l *Lib) NJD2JPCommon(jpcommon, njd Ptr) { l.call(SymNJD2JPCommon, p(jpcommon), p(njd)) }

// jpcommon.h

func (l *Lib) JPCommonInitialize(jpc Ptr) { l.call(SymJPCommonInitialize, p(jpc)) }

func (l *Lib) JPCommonClear(jpc Ptr) { l.call(SymJPCommonClear, p(jpc)) }

func (l *Lib) JPCommonRefresh(jpc Ptr) { l.call(SymJPCommonRefresh, p(jpc)) }

func (l *Lib) JPCommonMakeLabel(jpc Ptr) { l.call(SymJPCommonMakeLabel, p(jpc)) }

func (l *Lib) JPCommonGetLabelSize(jpc Ptr) int32 {
	return l.callInt(SymJPCommonGetLabelSize, p(jpc))
}

func (l *Lib) JPCommonGetLabelFeature(jpc Ptr) Ptr {
	return l.callPtr(SymJPCommonGetLabelFeats, p(jpc))
}
