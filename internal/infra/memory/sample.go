package memory

import "kviz/internal/domain"

// SampleQuestions is the built-in set played when no question bank can be loaded.
// It holds MaxQuestions entries so a fallback session never repeats a question.
func SampleQuestions() []domain.Question {
	out := make([]domain.Question, len(sampleQuestions))
	for i, q := range sampleQuestions {
		q.Choices = append([]string(nil), q.Choices...)
		out[i] = q
	}
	return out
}

var sampleQuestions = []domain.Question{
	{ID: "1", Prompt: "КОЈИ ЈЕ ГЛАВНИ ГРАД ФРАНЦУСКЕ?", Choices: []string{"Париз", "Марсеј", "Лион", "Ница"}, Correct: 0},
	{ID: "2", Prompt: "КОЈА РЕКА ПРОТИЧЕ КРОЗ БЕОГРАД?", Choices: []string{"Дунав", "Сава", "Морава", "Тиса"}, Correct: 1},
	{ID: "3", Prompt: "КОЈИ ЕЛЕМЕНТ ИМА ХЕМИЈСКИ СИМБОЛ O?", Choices: []string{"Кисеоник", "Злато", "Сребро", "Гвожђе"}, Correct: 0, Category: "hemija"},
	{ID: "4", Prompt: "КОЛИКО КОНТИНЕНАТА ПОСТОЈИ?", Choices: []string{"Пет", "Шест", "Седам", "Осам"}, Correct: 2},
	{ID: "5", Prompt: "КОЈА ЈЕ НАЈВЕЋА ПЛАНЕТА СУНЧЕВОГ СИСТЕМА?", Choices: []string{"Сатурн", "Јупитер", "Нептун", "Земља"}, Correct: 1},
	{ID: "6", Prompt: "КО ЈЕ НАПИСАО „НА ДРИНИ ЋУПРИЈА”?", Choices: []string{"Меша Селимовић", "Иво Андрић", "Бранко Ћопић", "Данило Киш"}, Correct: 1},
	{ID: "7", Prompt: "КОЛИКО СТЕПЕНИ ИМА ПРАВИ УГАО?", Choices: []string{"45", "90", "180", "360"}, Correct: 1},
	{ID: "8", Prompt: "КОЈИ ГАС БИЉКЕ УПИЈАЈУ ИЗ ВАЗДУХА?", Choices: []string{"Кисеоник", "Азот", "Угљен-диоксид", "Водоник"}, Correct: 2},
	{ID: "9", Prompt: "У КОЈОЈ ЈЕДИНИЦИ СЕ МЕРИ ЕЛЕКТРИЧНИ ОТПОР?", Choices: []string{"Ом", "Волт", "Ампер", "Ват"}, Correct: 0, Category: "fizika"},
	{ID: "10", Prompt: "КОЈИ НАУЧНИК ЈЕ РОЂЕН У СМИЉАНУ?", Choices: []string{"Никола Тесла", "Михајло Пупин", "Милутин Миланковић", "Јосиф Панчић"}, Correct: 0},
	{ID: "11", Prompt: "ШТА ЗНАЧИ ИЗРЕКА „CARPE DIEM”?", Choices: []string{"Искористи дан", "Знање је моћ", "Коцка је бачена", "Дођох, видех, победих"}, Correct: 0, Category: "latinske"},
	{ID: "12", Prompt: "КОЛИКО НОГУ ИМА ПАУК?", Choices: []string{"Шест", "Осам", "Десет", "Дванаест"}, Correct: 1},
	{ID: "13", Prompt: "КОЈА ЈЕ ХЕМИЈСКА ФОРМУЛА ВОДЕ?", Choices: []string{"H2O", "CO2", "NaCl", "O2"}, Correct: 0, Category: "hemija"},
	{ID: "14", Prompt: "КОЈИ ОКЕАН ЈЕ НАЈВЕЋИ?", Choices: []string{"Атлантски", "Индијски", "Тихи", "Северни ледени"}, Correct: 2},
	{ID: "15", Prompt: "КО ЈЕ ОСНИВАЧ ПСИХОАНАЛИЗЕ?", Choices: []string{"Карл Јунг", "Сигмунд Фројд", "Иван Павлов", "Вилијам Џејмс"}, Correct: 1, Category: "psihologija"},
	{ID: "16", Prompt: "КОЛИКА ЈЕ ПРИБЛИЖНО БРЗИНА СВЕТЛОСТИ У ВАКУУМУ?", Choices: []string{"300.000 km/s", "150.000 km/s", "30.000 km/s", "1.000.000 km/s"}, Correct: 0, Category: "fizika"},
	{ID: "17", Prompt: "КОЈЕ ГОДИНЕ ЈЕ ПОЧЕО ПРВИ СВЕТСКИ РАТ?", Choices: []string{"1912", "1914", "1918", "1939"}, Correct: 1},
	{ID: "18", Prompt: "КОЈИ ЈЕ НАЈВИШИ ВРХ НА СВЕТУ?", Choices: []string{"К2", "Монблан", "Монт Еверест", "Килиманџаро"}, Correct: 2},
	{ID: "19", Prompt: "ШТА ЗНАЧИ ИЗРЕКА „ALEA IACTA EST”?", Choices: []string{"Коцка је бачена", "Истина побеђује", "У вину је истина", "Мир вама"}, Correct: 0, Category: "latinske"},
	{ID: "20", Prompt: "КОЛИКО ПРОТОНА ИМА АТОМ ВОДОНИКА?", Choices: []string{"Један", "Два", "Три", "Нула"}, Correct: 0, Category: "hemija"},
}
