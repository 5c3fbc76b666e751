package meal

// SampleRecords returns the bundled demo menu used to seed an empty database.
func SampleRecords() []Record {
	return []Record{
		{
			Day:           "Sunday",
			MealType:      "Dinner",
			DishName:      "Gulab Jamun + Salad + Mint Butter Milk",
			Calories:      758.73,
			Carbohydrates: 42.09,
			Protein:       11.55,
			Fats:          61.26,
			FreeSugar:     Float(37.96),
			Fibre:         2.06,
			Sodium:        466.1,
			Calcium:       368.59,
			Iron:          1.6,
			VitaminC:      28.26,
			Folate:        104.19,
		},
		{
			Day:           "Monday",
			MealType:      "Breakfast",
			DishName:      "Poha + Tea",
			Calories:      320.45,
			Carbohydrates: 58.2,
			Protein:       8.3,
			Fats:          9.8,
			FreeSugar:     Float(12.5),
			Fibre:         3.2,
			Sodium:        380.5,
			Calcium:       45.2,
			Iron:          2.1,
			VitaminC:      15.8,
			Folate:        65.4,
		},
		{
			Day:           "Monday",
			MealType:      "Lunch",
			DishName:      "Dal Rice + Sabzi + Roti",
			Calories:      485.6,
			Carbohydrates: 72.4,
			Protein:       18.9,
			Fats:          12.3,
			FreeSugar:     Float(5.2),
			Fibre:         8.7,
			Sodium:        520.3,
			Calcium:       125.8,
			Iron:          4.2,
			VitaminC:      22.5,
			Folate:        145.6,
		},
	}
}
