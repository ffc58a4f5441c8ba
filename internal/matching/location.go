package matching

import "strings"

// Location tiers.
const (
	sameLGAScore          = 100
	adjacentLGAScore      = 85
	sameDistrictScore     = 70
	sameStateScore        = 50
	livesInNativeLGAScore = 80
	livesInRegionScore    = 65
	culturalInterestScore = 60
	basicMixedScore       = 40
	nonNativeSameLGAScore = 75
	nonNativeSameCity     = 65
	nonNativeInRegion     = 50
	sharedInterestBase    = 40
	basicNonNativeScore   = 30
	locationFallbackScore = 25
)

func (e *Engine) locationScore(a, b *UserProfile) float64 {
	nativeA, nativeB := a.IsNative(), b.IsNative()

	switch {
	case nativeA && nativeB:
		return e.nativePairScore(a.LGA, b.LGA)
	case nativeA && !nativeB:
		return e.mixedPairScore(a, b)
	case !nativeA && nativeB:
		return e.mixedPairScore(b, a)
	case !nativeA && !nativeB:
		return nonNativePairScore(a, b)
	}
	return locationFallbackScore
}

func (e *Engine) nativePairScore(lgaA, lgaB string) float64 {
	switch {
	case lgaA == lgaB:
		return sameLGAScore
	case e.regions.Adjacent(lgaA, lgaB):
		return adjacentLGAScore
	case e.regions.District(lgaA) == e.regions.District(lgaB):
		return sameDistrictScore
	}
	return sameStateScore
}

func (e *Engine) mixedPairScore(native, visitor *UserProfile) float64 {
	if visitor.CurrentLGA == native.LGA {
		return livesInNativeLGAScore
	}

	if visitor.CurrentLGA != "" && visitor.CurrentLGA != OutsideNigeria && visitor.CurrentLGA != OtherNigeria {
		return livesInRegionScore
	}

	if visitor.ConnectionReason != "" && e.culturalInterest(visitor.ConnectionReason, native) {
		return culturalInterestScore
	}

	return basicMixedScore
}

// nonNativePairScore only treats outside_nigeria as out of region.
func nonNativePairScore(a, b *UserProfile) float64 {
	if a.CurrentLGA != "" && b.CurrentLGA != "" &&
		a.CurrentLGA != OutsideNigeria && b.CurrentLGA != OutsideNigeria {
		switch {
		case a.CurrentLGA == b.CurrentLGA:
			return nonNativeSameLGAScore
		case a.City == b.City:
			return nonNativeSameCity
		}
		return nonNativeInRegion
	}

	if a.ConnectionReason != "" && b.ConnectionReason != "" {
		return sharedInterestBase + interestSimilarity(a.ConnectionReason, b.ConnectionReason)*0.6
	}

	return basicNonNativeScore
}

// culturalInterest matches any token of reason against the cultural terms,
// or as a substring of the native's hometown or LGA.
func (e *Engine) culturalInterest(reason string, native *UserProfile) bool {
	hometown, lga := lower(native.Hometown), lower(native.LGA)

	for _, word := range splitWords(lower(reason)) {
		if e.regions.isCulturalTerm(word) {
			return true
		}
		if hometown != "" && strings.Contains(hometown, word) {
			return true
		}
		if lga != "" && strings.Contains(lga, word) {
			return true
		}
	}
	return false
}
