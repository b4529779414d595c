// internal/diagnosis/fixture_test.go
package diagnosis

import (
	"jobchaja-workers/internal/models"
)

func intPtr(v int) *int { return &v }

func fundRow(under, low, mid, high float64) map[models.FundBucket]float64 {
	return map[models.FundBucket]float64{
		models.FundUnder300:   under,
		models.Fund300To1000:  low,
		models.Fund1000To3000: mid,
		models.FundOver3000:   high,
	}
}

func educationRow(hs, assoc, bach, master, doc float64) map[models.EducationLevel]float64 {
	return map[models.EducationLevel]float64{
		models.EducationHighSchool: hs,
		models.EducationAssociate:  assoc,
		models.EducationBachelor:   bach,
		models.EducationMaster:     master,
		models.EducationDoctorate:  doc,
	}
}

func uniformCategories(v float64) map[models.VisaCategory]float64 {
	return map[models.VisaCategory]float64{
		models.CategoryLanguageTraining: v,
		models.CategoryStudy:            v,
		models.CategoryJobSeeking:       v,
		models.CategoryNonProfessional:  v,
		models.CategorySeasonalWork:     v,
		models.CategoryProfessional:     v,
		models.CategoryWorkingVisit:     v,
		models.CategoryResidency:        v,
	}
}

// testCatalog is a compact but structurally complete catalog: seven pathway
// roots, a transition graph reaching F-5, and full rule tables for every
// category the roots use.
func testCatalog() *models.VisaCatalog {
	standardBands := []models.AgeBand{
		{MaxAge: 24, Multiplier: 1.1},
		{MaxAge: 34, Multiplier: 1.0},
		{MaxAge: 49, Multiplier: 0.9},
		{MaxAge: 99, Multiplier: 0.75},
	}

	ageTable := map[models.VisaCategory][]models.AgeBand{}
	nationalityTable := map[models.VisaCategory]models.NationalityRule{}
	fundTable := map[models.VisaCategory]map[models.FundBucket]float64{}
	educationTable := map[models.VisaCategory]map[models.EducationLevel]float64{}
	for cat := range uniformCategories(0) {
		ageTable[cat] = standardBands
		nationalityTable[cat] = models.NationalityRule{
			Multipliers: map[string]float64{"VN": 1.05, "CN": 1.0, "UZ": 1.0},
			Default:     0.95,
		}
		fundTable[cat] = fundRow(0.7, 0.85, 1.0, 1.1)
		educationTable[cat] = educationRow(0.8, 0.9, 1.0, 1.05, 1.1)
	}

	return &models.VisaCatalog{
		Version:       "test",
		Nationalities: []string{"VN", "CN", "US", "UZ", "JP", "PH", "TH", "IN"},
		NationalityAliases: map[string]string{
			"vietnam": "VN", "베트남": "VN",
			"china": "CN", "중국": "CN",
			"미국": "US", "uzbekistan": "UZ",
			"일본": "JP", "philippines": "PH",
			"태국": "TH", "인도": "IN",
		},
		Entries: []models.VisaCatalogEntry{
			{
				Code:      "D-4",
				Category:  models.CategoryLanguageTraining,
				NameKo:    "어학연수",
				NameEn:    "Language Training",
				BaseScore: 85,
				Eligibility: models.HardEligibility{
					MinFund: models.Fund300To1000,
				},
				Goals: []models.FinalGoal{
					models.GoalLanguageStudy, models.GoalDegree,
					models.GoalLongTermWork, models.GoalResidency,
				},
			},
			{
				Code:      "D-2",
				Category:  models.CategoryStudy,
				NameKo:    "유학",
				NameEn:    "Degree Study",
				BaseScore: 75,
				Eligibility: models.HardEligibility{
					MinFund: models.Fund1000To3000,
				},
				Goals: []models.FinalGoal{
					models.GoalDegree, models.GoalLongTermWork, models.GoalResidency,
				},
			},
			{
				Code:      "D-10",
				Category:  models.CategoryJobSeeking,
				NameKo:    "구직",
				NameEn:    "Job Seeking",
				BaseScore: 65,
				Eligibility: models.HardEligibility{
					MinEducation: models.EducationBachelor,
				},
				Goals: []models.FinalGoal{
					models.GoalLongTermWork, models.GoalResidency,
				},
			},
			{
				Code:      "E-9",
				Category:  models.CategoryNonProfessional,
				NameKo:    "고용허가제 취업",
				NameEn:    "EPS Employment",
				BaseScore: 80,
				Eligibility: models.HardEligibility{
					MinAge:        intPtr(18),
					MaxAge:        intPtr(39),
					Nationalities: []string{"VN", "PH", "TH", "UZ", "IN"},
				},
				Goals: []models.FinalGoal{
					models.GoalShortTermWork, models.GoalLongTermWork,
				},
			},
			{
				Code:      "E-7",
				Category:  models.CategoryProfessional,
				NameKo:    "전문인력 취업",
				NameEn:    "Skilled Worker",
				BaseScore: 60,
				Eligibility: models.HardEligibility{
					MinEducation: models.EducationBachelor,
				},
				Goals: []models.FinalGoal{
					models.GoalLongTermWork, models.GoalResidency,
				},
			},
			{
				Code:      "E-8",
				Category:  models.CategorySeasonalWork,
				NameKo:    "계절근로",
				NameEn:    "Seasonal Work",
				BaseScore: 70,
				Eligibility: models.HardEligibility{
					MinAge:        intPtr(19),
					MaxAge:        intPtr(60),
					Nationalities: []string{"VN", "PH", "UZ", "TH"},
				},
				Goals: []models.FinalGoal{models.GoalShortTermWork},
			},
			{
				Code:      "H-2",
				Category:  models.CategoryWorkingVisit,
				NameKo:    "방문취업",
				NameEn:    "Working Visit",
				BaseScore: 75,
				Eligibility: models.HardEligibility{
					MinAge:        intPtr(18),
					MaxAge:        intPtr(65),
					Nationalities: []string{"CN", "UZ"},
				},
				Goals: []models.FinalGoal{
					models.GoalShortTermWork, models.GoalLongTermWork,
				},
			},
		},
		Nodes: map[string]models.ChainNode{
			"D-4": {
				Code: "D-4", Category: models.CategoryLanguageTraining,
				NameKo: "어학연수", Months: 12, DurationLabel: "1년",
				CostWon: 8000000,
				Work:    models.WorkPolicy{CanWorkPartTime: true, WeeklyHours: 20},
				MilestoneKo: "어학연수 비자 취득", MilestoneDesc: "어학당 등록 및 입국",
				SubEvents: []models.SubEvent{
					{NameKo: "TOPIK 2급 달성", Description: "유학 전환 요건 충족", MonthOffset: 9},
				},
				Requirements: []models.Requirement{
					{NameKo: "어학당 지원", Description: "어학당 입학 지원서 제출", ActionType: models.ActionProgramEnrollment, Urgency: 1},
					{NameKo: "재정 증명 준비", Description: "은행 잔고 증명서 발급", ActionType: models.ActionDocumentPrep, Urgency: 2},
				},
			},
			"D-2": {
				Code: "D-2", Category: models.CategoryStudy,
				NameKo: "유학", Months: 24, DurationLabel: "2년",
				CostWon: 20000000,
				Work:    models.WorkPolicy{CanWorkPartTime: true, WeeklyHours: 20},
				MilestoneKo: "유학 비자 취득", MilestoneDesc: "대학 입학 및 비자 전환",
				CompletionKo: "학위 취득",
				Requirements: []models.Requirement{
					{NameKo: "대학 입학 지원", Description: "지원 대학 선정 및 원서 접수", ActionType: models.ActionProgramEnrollment, Urgency: 1},
				},
			},
			"D-10": {
				Code: "D-10", Category: models.CategoryJobSeeking,
				NameKo: "구직", Months: 6, DurationLabel: "6개월",
				CostWon: 500000,
				MilestoneKo: "구직 비자 취득", MilestoneDesc: "구직 활동 개시",
				Requirements: []models.Requirement{
					{NameKo: "이력서 준비", Description: "국문 이력서 작성", ActionType: models.ActionDocumentPrep, Urgency: 1},
					{NameKo: "취업 상담", Description: "전문 취업 상담 예약", ActionType: models.ActionConsultation, Urgency: 2},
				},
			},
			"E-9": {
				Code: "E-9", Category: models.CategoryNonProfessional,
				NameKo: "고용허가제 취업", Months: 58, DurationLabel: "4년 10개월",
				CostWon: 1000000,
				MilestoneKo: "고용허가제 입국", MilestoneDesc: "고용 계약 체결 및 입국",
				CompletionKo: "체류 기간 만료",
				Requirements: []models.Requirement{
					{NameKo: "EPS-TOPIK 응시", Description: "고용허가제 한국어 시험 접수", ActionType: models.ActionApplication, Urgency: 1},
				},
			},
			"E-7": {
				Code: "E-7", Category: models.CategoryProfessional,
				NameKo: "전문인력 취업", Months: 36, DurationLabel: "3년",
				CostWon: 2000000,
				MilestoneKo: "전문인력 비자 취득", MilestoneDesc: "고용 계약 및 비자 발급",
				CompletionKo: "장기 취업 정착",
				Requirements: []models.Requirement{
					{NameKo: "고용 계약 체결", Description: "국내 기업 채용 확정", ActionType: models.ActionApplication, Urgency: 1},
				},
			},
			"E-8": {
				Code: "E-8", Category: models.CategorySeasonalWork,
				NameKo: "계절근로", Months: 5, DurationLabel: "5개월",
				CostWon: 800000,
				MilestoneKo: "계절근로 입국", MilestoneDesc: "지자체 배정 및 입국",
				CompletionKo: "근로 기간 종료",
			},
			"H-2": {
				Code: "H-2", Category: models.CategoryWorkingVisit,
				NameKo: "방문취업", Months: 36, DurationLabel: "3년",
				CostWon: 1500000,
				MilestoneKo: "방문취업 비자 취득", MilestoneDesc: "비자 발급 및 입국",
				CompletionKo: "체류 기간 만료",
			},
			"F-2-7": {
				Code: "F-2-7", Category: models.CategoryResidency,
				NameKo: "점수제 거주", Months: 36, DurationLabel: "3년",
				CostWon: 300000,
				MilestoneKo: "거주 비자 취득", MilestoneDesc: "점수제 요건 충족",
			},
			"F-5": {
				Code: "F-5", Category: models.CategoryResidency,
				NameKo: "영주", Months: 0, DurationLabel: "영구",
				CostWon: 200000,
				MilestoneKo: "영주권 취득", MilestoneDesc: "영주 자격 부여",
			},
		},
		Transitions: map[string][]string{
			"D-4":   {"D-2"},
			"D-2":   {"D-10"},
			"D-10":  {"E-7"},
			"E-7":   {"F-2-7"},
			"F-2-7": {"F-5"},
		},
		GoalTerminals: map[models.FinalGoal][]string{
			models.GoalLanguageStudy: {"D-4"},
			models.GoalShortTermWork: {"E-8", "E-9", "H-2"},
			models.GoalLongTermWork:  {"E-7", "E-9", "H-2"},
			models.GoalDegree:        {"D-2"},
			models.GoalResidency:     {"F-5"},
		},
		Rules: models.RuleTables{
			Age:         ageTable,
			Nationality: nationalityTable,
			Fund:        fundTable,
			Education:   educationTable,
			GoalFit: map[models.FinalGoal]map[models.VisaCategory]float64{
				models.GoalLanguageStudy: uniformCategories(1.0),
				models.GoalShortTermWork: uniformCategories(1.0),
				models.GoalLongTermWork: {
					models.CategoryLanguageTraining: 0.6,
					models.CategoryStudy:            0.8,
					models.CategoryJobSeeking:       0.95,
					models.CategoryNonProfessional:  1.0,
					models.CategorySeasonalWork:     0.5,
					models.CategoryProfessional:     1.1,
					models.CategoryWorkingVisit:     0.9,
					models.CategoryResidency:        0.8,
				},
				models.GoalDegree:    uniformCategories(1.0),
				models.GoalResidency: uniformCategories(0.9),
			},
			Priority: map[models.PriorityPreference]map[models.VisaCategory]float64{
				models.PrioritySpeed:       uniformCategories(1.0),
				models.PriorityCost:        uniformCategories(1.0),
				models.PrioritySuccessRate: uniformCategories(1.0),
				models.PriorityFieldMatch:  uniformCategories(1.0),
			},
		},
	}
}

func validRaw() *RawDiagnosisInput {
	return &RawDiagnosisInput{
		Nationality:        "Vietnam",
		Age:                24,
		EducationLevel:     "학사",
		AvailableFund:      "1000-3000만원",
		FinalGoal:          "장기 취업",
		PriorityPreference: "성공률",
	}
}
