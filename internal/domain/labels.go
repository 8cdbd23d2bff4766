package domain

// Descriptive text for status variants lives here, outside any decision
// logic, so handlers and notification payloads can render human-readable
// labels without the core depending on presentation strings.

var difficultyLabels = map[TaskDifficulty]string{
	DifficultyEasy:   "Easy",
	DifficultyMedium: "Medium",
	DifficultyHard:   "Hard",
}

var caseStatusLabels = map[CaseStatus]string{
	CaseStatusPending:   "Pending review",
	CaseStatusContacted: "Student contacted",
	CaseStatusResolved:  "Resolved",
	CaseStatusDismissed: "Dismissed as false positive",
}

var pressureStatusLabels = map[PressureStatus]string{
	PressureSafe:       "Safe",
	PressureAtRisk:     "At risk",
	PressureOverloaded: "Overloaded",
}

func (d TaskDifficulty) Label() string {
	if l, ok := difficultyLabels[d]; ok {
		return l
	}

	return string(d)
}

func (s CaseStatus) Label() string {
	if l, ok := caseStatusLabels[s]; ok {
		return l
	}

	return string(s)
}

func (p PressureStatus) Label() string {
	if l, ok := pressureStatusLabels[p]; ok {
		return l
	}

	return string(p)
}
