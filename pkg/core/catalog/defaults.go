package catalog

import "fmt"

// Assignment codes of the standard catalogue
const (
	CodeMidweekChairman      = "MM_Chairman"
	CodeAuxiliaryCounselor   = "MM_AuxiliaryCounselor"
	CodeMidweekPrayer        = "MM_Prayer"
	CodeTreasuresTalk        = "MM_TGWTalk"
	CodeSpiritualGems        = "MM_TGWGems"
	CodeBibleReading         = "MM_BibleReading"
	CodeStartingConversation = "MM_StartingConversation"
	CodeFollowingUp          = "MM_FollowingUp"
	CodeMakingDisciples      = "MM_MakingDisciples"
	CodeExplainingBeliefs    = "MM_ExplainingBeliefs"
	CodeStudentTalk          = "MM_Talk"
	CodeAssistant            = "MM_Assistant"
	CodeLivingPart           = "MM_LCPart"
	CodeBibleStudyConductor  = "MM_CBSConductor"
	CodeBibleStudyReader     = "MM_CBSReader"
	CodeMidweekOverseer      = "MM_CircuitOverseer"
	CodeWeekendChairman      = "WM_Chairman"
	CodeWeekendPrayer        = "WM_Prayer"
	CodeSpeaker              = "WM_Speaker"
	CodeSpeakerSymposium     = "WM_SpeakerSymposium"
	CodeWatchtowerConductor  = "WM_WTStudyConductor"
	CodeWatchtowerReader     = "WM_WTStudyReader"
	CodeWeekendOverseer      = "WM_CircuitOverseer"
)

// DefaultTypes is the standard assignment catalogue
func DefaultTypes() []AssignmentType {
	return []AssignmentType{
		{Code: CodeMidweekChairman, Category: CategoryChairman, Role: RoleElder, Gender: GenderMale},
		{Code: CodeAuxiliaryCounselor, Category: CategoryChairman, Role: RoleElder, Gender: GenderMale},
		{Code: CodeMidweekPrayer, Category: CategoryPrayer, Role: RoleBaptized, Gender: GenderMale, Family: FamilyPrayer},
		{Code: CodeTreasuresTalk, Category: CategoryTalk, Role: RoleQualifiedBrother, Gender: GenderMale, Family: FamilyTalk},
		{Code: CodeSpiritualGems, Category: CategoryTalk, Role: RoleQualifiedBrother, Gender: GenderMale, Family: FamilyTalk},
		{Code: CodeLivingPart, Category: CategoryTalk, Role: RoleQualifiedBrother, Gender: GenderMale, Family: FamilyTalk},
		{Code: CodeBibleReading, Category: CategoryStudentPart, Role: RoleStudent, Gender: GenderMale, Family: FamilyStudentPart},
		{Code: CodeStartingConversation, Category: CategoryStudentPart, Role: RoleStudent, Gender: GenderEither, Family: FamilyStudentPart},
		{Code: CodeFollowingUp, Category: CategoryStudentPart, Role: RoleStudent, Gender: GenderEither, Family: FamilyStudentPart},
		{Code: CodeMakingDisciples, Category: CategoryStudentPart, Role: RoleStudent, Gender: GenderEither, Family: FamilyStudentPart},
		{Code: CodeExplainingBeliefs, Category: CategoryStudentPart, Role: RoleStudent, Gender: GenderEither, Family: FamilyStudentPart},
		{Code: CodeStudentTalk, Category: CategoryStudentPart, Role: RoleStudent, Gender: GenderMale, Family: FamilyStudentPart},
		{Code: CodeAssistant, Category: CategoryAssistantPart, Role: RoleAssistant, Gender: GenderEither, Family: FamilyAssistant},
		{Code: CodeBibleStudyConductor, Category: CategoryStudyConductor, Role: RoleElder, Gender: GenderMale},
		{Code: CodeBibleStudyReader, Category: CategoryReading, Role: RoleBaptized, Gender: GenderMale, Family: FamilyReading},
		{Code: CodeMidweekOverseer, Category: CategoryCircuitOverseer, Role: RoleNone, Gender: GenderMale},
		{Code: CodeWeekendChairman, Category: CategoryChairman, Role: RoleElder, Gender: GenderMale},
		{Code: CodeWeekendPrayer, Category: CategoryPrayer, Role: RoleBaptized, Gender: GenderMale, Family: FamilyPrayer},
		{Code: CodeSpeaker, Category: CategoryTalk, Role: RoleQualifiedBrother, Gender: GenderMale, Family: FamilyPublicTalk},
		{Code: CodeSpeakerSymposium, Category: CategoryTalk, Role: RoleQualifiedBrother, Gender: GenderMale, Family: FamilyPublicTalk},
		{Code: CodeWatchtowerConductor, Category: CategoryStudyConductor, Role: RoleElder, Gender: GenderMale},
		{Code: CodeWatchtowerReader, Category: CategoryReading, Role: RoleBaptized, Gender: GenderMale, Family: FamilyReading},
		{Code: CodeWeekendOverseer, Category: CategoryCircuitOverseer, Role: RoleNone, Gender: GenderMale},
	}
}

// DefaultSlots is the standard slot table for both weekly meetings. Keys
// ending in _A are main hall, _B the auxiliary classroom.
func DefaultSlots() []Slot {
	mm := func(key, path, code string) Slot {
		return Slot{Key: key, Path: "midweek_meeting." + path, Meeting: MeetingMidweek, Code: code}
	}
	wm := func(key, path, code string) Slot {
		return Slot{Key: key, Path: "weekend_meeting." + path, Meeting: MeetingWeekend, Code: code}
	}

	slots := []Slot{
		mm("MM_Chairman_A", "chairman.main_hall", CodeMidweekChairman),
		mm("MM_Chairman_B", "chairman.aux_class_1", CodeAuxiliaryCounselor),
		mm("MM_OpeningPrayer", "opening_prayer", CodeMidweekPrayer),
		mm("MM_TGWTalk", "tgw_talk", CodeTreasuresTalk),
		mm("MM_TGWGems", "tgw_gems", CodeSpiritualGems),
		mm("MM_TGWBibleReading_A", "tgw_bible_reading.main_hall", CodeBibleReading),
		mm("MM_TGWBibleReading_B", "tgw_bible_reading.aux_class_1", CodeBibleReading),
	}

	studentDefaults := []string{CodeStartingConversation, CodeFollowingUp, CodeMakingDisciples, CodeExplainingBeliefs}
	for i, code := range studentDefaults {
		part := i + 1
		for _, hall := range []struct{ suffix, path string }{{"A", "main_hall"}, {"B", "aux_class_1"}} {
			student := mm(
				fmt.Sprintf("MM_AYFPart%d_Student_%s", part, hall.suffix),
				fmt.Sprintf("ayf_part%d.%s.student", part, hall.path),
				code,
			)
			assistant := mm(
				fmt.Sprintf("MM_AYFPart%d_Assistant_%s", part, hall.suffix),
				fmt.Sprintf("ayf_part%d.%s.assistant", part, hall.path),
				CodeAssistant,
			)
			assistant.Principal = student.Key
			slots = append(slots, student, assistant)
		}
	}

	overseer := mm("MM_CircuitOverseer", "circuit_overseer", CodeMidweekOverseer)
	overseer.VisitingOverseer = true

	slots = append(slots,
		mm("MM_LCPart1", "lc_part1", CodeLivingPart),
		mm("MM_LCPart2", "lc_part2", CodeLivingPart),
		mm("MM_LCPart3", "lc_part3", CodeLivingPart),
		mm("MM_LCCBSConductor", "lc_cbs.conductor", CodeBibleStudyConductor),
		mm("MM_LCCBSReader", "lc_cbs.reader", CodeBibleStudyReader),
		mm("MM_ClosingPrayer", "closing_prayer", CodeMidweekPrayer),
		overseer,
	)

	speaker := wm("WM_Speaker_Part1", "speaker.part_1", CodeSpeaker)
	speaker.VisitingOverseer = true
	closing := wm("WM_ClosingPrayer", "closing_prayer", CodeWeekendPrayer)
	closing.VisitingOverseer = true
	weekendOverseer := wm("WM_CircuitOverseer", "circuit_overseer", CodeWeekendOverseer)
	weekendOverseer.VisitingOverseer = true

	slots = append(slots,
		wm("WM_Chairman", "chairman", CodeWeekendChairman),
		wm("WM_OpeningPrayer", "opening_prayer", CodeWeekendPrayer),
		speaker,
		wm("WM_Speaker_Part2", "speaker.part_2", CodeSpeakerSymposium),
		wm("WM_WTStudy_Conductor", "wt_study.conductor", CodeWatchtowerConductor),
		wm("WM_WTStudy_Reader", "wt_study.reader", CodeWatchtowerReader),
		closing,
		weekendOverseer,
		wm("WM_SubstituteSpeaker", "speaker.substitute", CodeSpeaker),
		wm("WM_Speaker_Outgoing", "speaker.outgoing", CodeSpeaker),
	)

	return slots
}

// Default returns the standard catalogue
func Default() *Catalog {
	return MustNew(DefaultTypes(), DefaultSlots())
}
