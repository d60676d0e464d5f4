package seeders

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lac-hong-legacy/codequest_api/model"
)

// CourseSeeder seeds languages, their modules, lessons and exercises
type CourseSeeder struct {
	db *gorm.DB
}

func NewCourseSeeder(db *gorm.DB) *CourseSeeder {
	return &CourseSeeder{db: db}
}

type lessonSeed struct {
	title      string
	lessonType string
	content    string
	exercises  []exerciseSeed
}

type exerciseSeed struct {
	exerciseType string
	question     string
	options      string
	answer       string
}

type moduleSeed struct {
	title       string
	description string
	lessons     []lessonSeed
}

type languageSeed struct {
	id          string
	name        string
	description string
	imageURL    string
	modules     []moduleSeed
}

// SeedCourses inserts the course tree. IDs are derived from the language id
// and positions, so a rerun finds the same rows and skips them.
func (s *CourseSeeder) SeedCourses() error {
	for _, lang := range courseCatalog() {
		language := model.Language{
			ID:          lang.id,
			Name:        lang.name,
			Description: lang.description,
			ImageURL:    lang.imageURL,
		}
		if err := insertMissing(s.db, &language, "language", lang.name); err != nil {
			return err
		}

		for mi, mod := range lang.modules {
			moduleID := fmt.Sprintf("%s_m%d", lang.id, mi+1)
			module := model.Module{
				ID:          moduleID,
				LanguageID:  lang.id,
				Title:       mod.title,
				Description: mod.description,
				Order:       mi + 1,
			}
			if err := insertMissing(s.db, &module, "module", mod.title); err != nil {
				return err
			}

			for li, les := range mod.lessons {
				lessonID := fmt.Sprintf("%s_l%d", moduleID, li+1)
				lesson := model.Lesson{
					ID:         lessonID,
					ModuleID:   moduleID,
					Title:      les.title,
					LessonType: les.lessonType,
					Order:      li + 1,
					Content:    les.content,
				}
				if err := insertMissing(s.db, &lesson, "lesson", les.title); err != nil {
					return err
				}

				for ei, ex := range les.exercises {
					exercise := model.Exercise{
						ID:           fmt.Sprintf("%s_e%d", lessonID, ei+1),
						LessonID:     lessonID,
						ExerciseType: ex.exerciseType,
						Question:     ex.question,
						Options:      datatypes.JSON(ex.options),
						Answer:       ex.answer,
					}
					if err := insertMissing(s.db, &exercise, "exercise", exercise.ID); err != nil {
						return err
					}
				}
			}
		}
	}

	log.Info("Course seeding completed")
	return nil
}

func courseCatalog() []languageSeed {
	return []languageSeed{
		{
			id:          "lang_python",
			name:        "Python",
			description: "A readable general-purpose language, a good first step into programming.",
			imageURL:    "/img/languages/python.png",
			modules: []moduleSeed{
				{
					title:       "Python Basics",
					description: "Output, variables and simple types.",
					lessons: []lessonSeed{
						{
							title:      "Hello, World",
							lessonType: model.LessonTypeTheory,
							content:    "Every Python program can print text with the built-in print function:\n\nprint(\"Hello, World\")",
							exercises: []exerciseSeed{
								{
									exerciseType: model.ExerciseTypeMultipleChoice,
									question:     "Which function writes text to the console?",
									options:      `{"a":"echo()","b":"print()","c":"write()","d":"console.log()"}`,
									answer:       "b",
								},
								{
									exerciseType: model.ExerciseTypeFillBlank,
									question:     "Complete the line so it prints Hi: ____(\"Hi\")",
									options:      `{}`,
									answer:       "print",
								},
							},
						},
						{
							title:      "Variables",
							lessonType: model.LessonTypeTheory,
							content:    "A variable is a name bound to a value. Python infers the type:\n\nage = 12\nname = \"Ada\"",
							exercises: []exerciseSeed{
								{
									exerciseType: model.ExerciseTypeMultipleChoice,
									question:     "What is the type of x after x = 3.5?",
									options:      `{"a":"int","b":"str","c":"float","d":"bool"}`,
									answer:       "c",
								},
							},
						},
						{
							title:      "Practice: Greeting",
							lessonType: model.LessonTypePractice,
							content:    "Store your name in a variable and print a greeting that uses it.",
							exercises: []exerciseSeed{
								{
									exerciseType: model.ExerciseTypeCode,
									question:     "Write code that prints Hello, Ada using a variable called name.",
									options:      `{}`,
									answer:       "name = \"Ada\"\nprint(\"Hello, \" + name)",
								},
							},
						},
					},
				},
				{
					title:       "Control Flow",
					description: "Conditions and loops.",
					lessons: []lessonSeed{
						{
							title:      "If Statements",
							lessonType: model.LessonTypeTheory,
							content:    "if runs a block only when its condition is true:\n\nif score > 10:\n    print(\"Well done\")",
							exercises: []exerciseSeed{
								{
									exerciseType: model.ExerciseTypeMultipleChoice,
									question:     "Which keyword adds another condition to an if?",
									options:      `{"a":"else if","b":"elif","c":"elseif","d":"or if"}`,
									answer:       "b",
								},
							},
						},
						{
							title:      "For Loops",
							lessonType: model.LessonTypeTheory,
							content:    "for walks over any sequence:\n\nfor i in range(3):\n    print(i)",
							exercises: []exerciseSeed{
								{
									exerciseType: model.ExerciseTypeFillBlank,
									question:     "range(3) yields 0, 1 and ____.",
									options:      `{}`,
									answer:       "2",
								},
							},
						},
					},
				},
			},
		},
		{
			id:          "lang_javascript",
			name:        "JavaScript",
			description: "The language of the web browser.",
			imageURL:    "/img/languages/javascript.png",
			modules: []moduleSeed{
				{
					title:       "JavaScript Fundamentals",
					description: "Declarations, types and the console.",
					lessons: []lessonSeed{
						{
							title:      "let and const",
							lessonType: model.LessonTypeTheory,
							content:    "Use const for bindings that never change and let for those that do:\n\nconst pi = 3.14;\nlet count = 0;",
							exercises: []exerciseSeed{
								{
									exerciseType: model.ExerciseTypeMultipleChoice,
									question:     "Which declaration cannot be reassigned?",
									options:      `{"a":"var","b":"let","c":"const"}`,
									answer:       "c",
								},
							},
						},
						{
							title:      "Functions",
							lessonType: model.LessonTypeTheory,
							content:    "Functions package reusable logic:\n\nfunction add(a, b) {\n  return a + b;\n}",
							exercises: []exerciseSeed{
								{
									exerciseType: model.ExerciseTypeFillBlank,
									question:     "A function sends a value back with the ____ keyword.",
									options:      `{}`,
									answer:       "return",
								},
								{
									exerciseType: model.ExerciseTypeMultipleChoice,
									question:     "What does add(2, 3) return?",
									options:      `{"a":"23","b":"5","c":"undefined"}`,
									answer:       "b",
								},
							},
						},
					},
				},
				{
					title:       "Arrays",
					description: "Working with lists of values.",
					lessons: []lessonSeed{
						{
							title:      "Array Methods",
							lessonType: model.LessonTypePractice,
							content:    "map, filter and reduce transform arrays without loops.",
							exercises: []exerciseSeed{
								{
									exerciseType: model.ExerciseTypeCode,
									question:     "Double every number in nums using map.",
									options:      `{}`,
									answer:       "nums.map(n => n * 2)",
								},
							},
						},
					},
				},
			},
		},
		{
			id:          "lang_java",
			name:        "Java",
			description: "A statically typed language for large applications.",
			imageURL:    "/img/languages/java.png",
			modules: []moduleSeed{
				{
					title:       "Java Basics",
					description: "Classes, main and primitive types.",
					lessons: []lessonSeed{
						{
							title:      "The main Method",
							lessonType: model.LessonTypeTheory,
							content:    "Execution starts at public static void main(String[] args).",
							exercises: []exerciseSeed{
								{
									exerciseType: model.ExerciseTypeMultipleChoice,
									question:     "Which type holds whole numbers?",
									options:      `{"a":"int","b":"double","c":"String","d":"boolean"}`,
									answer:       "a",
								},
							},
						},
					},
				},
			},
		},
		{
			id:          "lang_htmlcss",
			name:        "HTML & CSS",
			description: "Structure and style for web pages.",
			imageURL:    "/img/languages/htmlcss.png",
			modules: []moduleSeed{
				{
					title:       "Page Structure",
					description: "Elements, attributes and selectors.",
					lessons: []lessonSeed{
						{
							title:      "Headings and Paragraphs",
							lessonType: model.LessonTypeTheory,
							content:    "<h1> to <h6> mark headings and <p> marks a paragraph.",
							exercises: []exerciseSeed{
								{
									exerciseType: model.ExerciseTypeMultipleChoice,
									question:     "Which tag is the largest heading?",
									options:      `{"a":"<h6>","b":"<head>","c":"<h1>"}`,
									answer:       "c",
								},
							},
						},
					},
				},
			},
		},
	}
}
