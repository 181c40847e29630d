package domain

// StarterQuestionSet is the built-in fallback used when no external question
// source is configured or the configured one cannot be read. Content is a
// small sample of the full questions.json document.
func StarterQuestionSet() QuestionSet {
	return QuestionSet{
		Easy: []Question{
			{ID: 1, Text: "What council was in 325 AD?", Options: []string{"Nicaea", "Constantinople", "Ephesus", "Chalcedon"}, Answer: "Nicaea", Council: "Nicaea", HeresyPoints: 1, TimeLimitSeconds: 30},
			{ID: 2, Text: "Who translated the Bible into the Latin Vulgate?", Options: []string{"Jerome", "Augustine", "Origen", "Tertullian"}, Answer: "Jerome", Council: "General Tradition", HeresyPoints: 1, TimeLimitSeconds: 30},
			{ID: 3, Text: "What language was the New Testament written in?", Options: []string{"Greek", "Latin", "Hebrew", "Aramaic"}, Answer: "Greek", Council: "General Scripture", HeresyPoints: 0.5, TimeLimitSeconds: 30},
			{ID: 4, Text: "What heresy taught Christ was created?", Options: []string{"Arianism", "Nestorianism", "Monophysitism", "Docetism"}, Answer: "Arianism", Council: "Nicaea", HeresyPoints: 1, TimeLimitSeconds: 30},
			{ID: 5, Text: "What council was in 451 AD?", Options: []string{"Chalcedon", "Nicaea", "Constantinople", "Ephesus"}, Answer: "Chalcedon", Council: "Chalcedon", HeresyPoints: 1, TimeLimitSeconds: 30},
		},
		Medium: []Question{
			{ID: 1, Text: "What council condemned Pelagianism?", Options: []string{"Carthage", "Nicaea", "Chalcedon", "Trent"}, Answer: "Carthage", Council: "Carthage", HeresyPoints: 1, TimeLimitSeconds: 25},
			{ID: 2, Text: "Who founded the Jesuits?", Options: []string{"Ignatius Loyola", "Francis Xavier", "Augustine", "Benedict"}, Answer: "Ignatius Loyola", Council: "Trent", HeresyPoints: 1, TimeLimitSeconds: 25},
			{ID: 3, Text: "What heresy divided Christ into two persons?", Options: []string{"Nestorianism", "Arianism", "Monophysitism", "Docetism"}, Answer: "Nestorianism", Council: "Chalcedon", HeresyPoints: 1, TimeLimitSeconds: 25},
			{ID: 4, Text: "What council addressed Iconoclasm?", Options: []string{"Nicaea II", "Nicaea I", "Chalcedon", "Trent"}, Answer: "Nicaea II", Council: "Nicaea II", HeresyPoints: 1, TimeLimitSeconds: 25},
		},
		Hard: []Question{
			{ID: 1, Text: "What is 'Monergism'?", Options: []string{"God alone works", "Human cooperation", "Works alone", "Neither works"}, Answer: "God alone works", Council: "Carthage", HeresyPoints: 1, TimeLimitSeconds: 20},
			{ID: 2, Text: "What is 'Forensic Justification'?", Options: []string{"Legal declaration", "Moral transformation", "Both declaration and transformation", "Neither"}, Answer: "Legal declaration", Council: "Trent", HeresyPoints: 1, TimeLimitSeconds: 20},
			{ID: 3, Text: "What is 'Aseity'?", Options: []string{"Self-existence", "Self-knowledge", "Self-love", "Self-sufficiency"}, Answer: "Self-existence", Council: "Scholastic Tradition", HeresyPoints: 1, TimeLimitSeconds: 20},
		},
	}
}
