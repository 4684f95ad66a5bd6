package services

import "github.com/soaringjerry/Guidance/internal/models"

// ChecklistCategoryDef is the static metadata of one checklist life domain.
// Item order defines the raw answer index; field names mirror the backend schema.
type ChecklistCategoryDef struct {
	Key            models.ChecklistCategory `json:"key"`
	Title          string                   `json:"title"`
	Items          []string                 `json:"items"`
	Critical       []string                 `json:"critical,omitempty"`
	RiskFactor     string                   `json:"-"`
	Recommendation string                   `json:"-"`
}

var checklistCatalog = []ChecklistCategoryDef{
	{
		Key:   models.CategorySocial,
		Title: "Social / Friends",
		Items: []string{
			"making_friends", "keeping_friends", "feeling_left_out", "being_teased",
			"shyness", "feeling_lonely", "wanting_more_friends", "peer_pressure",
			"gossip_about_me", "trouble_trusting_people", "being_bullied", "awkward_in_groups",
			"no_close_friend", "friends_disapprove_of_me", "conflicts_with_friends", "not_fitting_in",
			"speaking_up_in_class", "meeting_new_people", "being_ignored", "online_harassment",
		},
		RiskFactor:     "Difficulties with peers and social belonging",
		Recommendation: "Join a peer support group or club to build social connections.",
	},
	{
		Key:   models.CategoryAppearance,
		Title: "Appearance",
		Items: []string{
			"weight", "height", "complexion", "acne", "hair",
			"clothes", "physical_fitness", "posture", "facial_features", "body_shape",
			"not_attractive", "comparing_looks", "teeth", "voice", "physical_disability",
		},
		RiskFactor:     "Concerns about body image and appearance",
		Recommendation: "Talk with a counselor about body image and self-acceptance.",
	},
	{
		Key:   models.CategoryAttitude,
		Title: "Attitude / Opinion",
		Items: []string{
			"losing_temper", "stubbornness", "too_critical", "lacking_confidence",
			"being_misunderstood", "worrying_what_others_think", "daydreaming", "procrastination",
			"lack_of_motivation", "pessimism", "perfectionism", "difficulty_making_decisions",
			"jealousy", "impatience", "cant_accept_criticism", "unsure_of_values",
			"being_too_sensitive", "negative_self_talk",
		},
		RiskFactor:     "Low self-confidence and negative outlook",
		Recommendation: "Work with a counselor on self-esteem and coping skills.",
	},
	{
		Key:   models.CategoryParents,
		Title: "Parents",
		Items: []string{
			"parents_divorced", "parents_separated", "parents_arguing", "strict_parents",
			"parents_dont_understand", "cant_talk_to_parents", "parents_expect_too_much", "parent_illness",
			"parent_death", "parent_drinking", "parent_unemployed", "parents_favor_sibling",
			"overprotective_parents", "parent_remarried", "conflicts_with_stepparent", "parents_disapprove_of_friends",
			"parent_working_abroad", "feeling_unloved_by_parents",
		},
		RiskFactor:     "Strained relationship with parents",
		Recommendation: "Consider a family conference facilitated by the guidance office.",
	},
	{
		Key:   models.CategoryFamily,
		Title: "Family / Home",
		Items: []string{
			"sibling_conflict", "crowded_home", "no_privacy", "household_chores",
			"family_financial_stress", "family_illness", "family_death", "moving_often",
			"violence_at_home", "family_substance_use", "feeling_unsafe_at_home", "responsibility_for_siblings",
			"relatives_interfering", "no_quiet_place_to_study", "family_not_close", "family_secrets",
			"living_away_from_family", "neglect", "family_legal_trouble", "wanting_to_leave_home",
		},
		RiskFactor:     "Instability or conflict at home",
		Recommendation: "Meet with a counselor to discuss your home situation and safety.",
	},
	{
		Key:   models.CategorySchool,
		Title: "School",
		Items: []string{
			"poor_grades", "failing_subjects", "exam_anxiety", "too_much_homework",
			"poor_study_habits", "difficulty_concentrating", "trouble_with_teachers", "unfair_grading",
			"choosing_a_course", "career_uncertainty", "afraid_to_recite", "absences",
			"tardiness", "school_too_far", "subject_too_hard", "no_interest_in_studies",
			"pressure_to_excel", "learning_difficulty", "disciplinary_problems", "group_work_conflicts",
			"scholarship_worries", "transferring_schools", "difficulty_with_language", "thinking_of_dropping_out",
		},
		RiskFactor:     "Academic pressure and school difficulties",
		Recommendation: "Schedule academic advising and study-skills coaching.",
	},
	{
		Key:   models.CategoryMoney,
		Title: "Money",
		Items: []string{
			"not_enough_allowance", "cant_afford_school_needs", "working_while_studying", "debts",
			"family_cant_pay_tuition", "cant_afford_activities", "budgeting", "no_money_for_food",
			"no_money_for_transport", "worry_about_family_income", "spending_too_much", "borrowing_from_friends",
			"lost_scholarship", "cant_afford_gadgets", "cant_afford_clothes", "dependent_on_relatives",
		},
		RiskFactor:     "Financial strain",
		Recommendation: "Ask the guidance office about scholarships and financial assistance.",
	},
	{
		Key:   models.CategoryReligion,
		Title: "Religion",
		Items: []string{
			"doubts_about_faith", "conflicts_with_family_beliefs", "guilt_about_religion", "religious_pressure",
			"confused_about_beliefs", "lost_faith", "being_judged_for_beliefs", "religious_differences_with_partner",
			"no_time_for_worship", "questioning_meaning_of_life", "feeling_distant_from_god", "conflict_between_science_and_faith",
		},
		RiskFactor:     "Spiritual or values-related conflict",
		Recommendation: "Explore your questions about beliefs with a counselor or trusted mentor.",
	},
	{
		Key:   models.CategoryEmotional,
		Title: "Emotional",
		Items: []string{
			"feeling_sad", "feeling_hopeless", "mood_swings", "crying_often",
			"anxious_most_of_the_time", "panic_attacks", "feeling_worthless", "excessive_guilt",
			"anger_outbursts", "feeling_empty", "trouble_sleeping", "nightmares",
			"loss_of_appetite", "overeating", "always_tired", "cant_enjoy_things",
			"trauma_memories", "feeling_numb", "self_harm_thoughts", "wanting_to_hurt_self",
			"thoughts_of_suicide", "life_not_worth_living",
		},
		Critical:       []string{"self_harm_thoughts", "wanting_to_hurt_self", "thoughts_of_suicide", "life_not_worth_living"},
		RiskFactor:     "Emotional distress",
		Recommendation: "Complete the anxiety and depression screenings and book a counseling session.",
	},
	{
		Key:   models.CategoryDating,
		Title: "Dating / Sex",
		Items: []string{
			"no_dating_experience", "breakup", "jealous_partner", "controlling_partner",
			"pressure_to_have_sex", "sexual_orientation_questions", "gender_identity_questions", "pregnancy_worry",
			"sexually_transmitted_infection_worry", "online_relationship_risks", "unrequited_love", "parents_disapprove_of_partner",
			"abusive_relationship", "sexual_harassment", "sexual_abuse", "lack_of_sex_education",
			"cheating_partner", "too_young_to_date",
		},
		RiskFactor:     "Relationship or sexuality concerns",
		Recommendation: "Talk confidentially with a counselor about relationships and personal safety.",
	},
}

// ChecklistCatalog returns the static checklist taxonomy in display order.
func ChecklistCatalog() []ChecklistCategoryDef {
	return checklistCatalog
}

// ChecklistItemCount is the total number of items across all categories.
func ChecklistItemCount() int {
	n := 0
	for _, cat := range checklistCatalog {
		n += len(cat.Items)
	}
	return n
}

func checklistCategory(key models.ChecklistCategory) (ChecklistCategoryDef, bool) {
	for _, cat := range checklistCatalog {
		if cat.Key == key {
			return cat, true
		}
	}
	return ChecklistCategoryDef{}, false
}

// ParseChecklistCategory validates a category key.
func ParseChecklistCategory(s string) (models.ChecklistCategory, bool) {
	cat, ok := checklistCategory(models.ChecklistCategory(s))
	return cat.Key, ok
}
