package document

import (
	"github.com/myway/panel-api/internal/model"
)

const dottedLine = "..................................................................................................................................."

func renderCard(w *writer, p *model.Patient) {
	const labelWidth = 60.0
	const gap = "             "

	w.newPage()
	w.title("KARTA UCZESTNIKA TERAPII")
	w.space(2)
	w.line("1. Dane personalne:", true, "L", 12)
	w.space(1)

	w.row("Imię i nazwisko", p.FullName(), labelWidth, 10)
	w.row("Data urodzenia", p.BirthDate+gap+"PESEL: "+p.Pesel, labelWidth, 10)
	w.row("Dokument tożsamości", p.IDSeries, labelWidth, 10)
	w.row("Miejsce zamieszkania", p.Address+", "+p.Voivodeship, labelWidth, 10)
	w.row("Telefon", p.Phone+gap+"E-mail: "+p.Email, labelWidth, 10)

	w.space(3)
	w.line("2. Informacje dotyczące leczenia:", true, "L", 12)
	w.space(1)

	w.row("Zażywane środki psychoaktywne", "", labelWidth, 18)
	w.row("Dotychczasowe próby leczenia", "", labelWidth, 18)
	w.row("Ważne informacje o stanie zdrowia", "", labelWidth, 18)
	w.row("Uczulenia", "", labelWidth, 13)
	w.row("Stosowane leki (aktualnie wraz z dawkowaniem)", "", labelWidth, 23)

	w.newPage()
	w.font(true, 12)
	w.text(marginLeft, 30, "3. Przekazywanie informacji o uczestniku terapii:")
	w.center(40, "Oświadczenie:")

	w.font(false, 10)
	w.text(marginLeft, 50, "a) Upoważniam Ośrodek My Way do udzielania informacji o mnie poniższym osobom:")
	w.text(marginLeft, 55, "(dane kontaktowe – imię, nazwisko, rodzaj relacji, nr tel. kontaktowego)")
	w.text(marginLeft, 65, dottedLine)
	w.text(marginLeft, 75, dottedLine)
	w.text(marginLeft, 85, dottedLine)

	w.text(marginLeft, 100, "b) Informacje mogą dotyczyć:")
	x := marginLeft + 5
	w.checkbox(x, 108, "Pobytu / opuszczenia ośrodka")
	w.checkbox(x, 115, "Stanu fizycznego / psychicznego w trakcie leczenia")
	w.checkbox(x, 122,
		"Obserwacji i spostrzeżeń dotyczących funkcjonowania i zaangażowania w proces",
		"terapeutycznego, postępów i zmian zachodzących w trakcie trwania terapii,")
	w.checkbox(x, 134, "Zaleceń terapeutycznych dotyczących dalszego kierunku leczenia")

	const bottom = 240.0
	w.text(marginLeft, bottom, "Kąpino, dnia "+p.ApplicationDate)
	w.text(marginLeft, bottom+20, "Podpis osoby przyjmującej ....................................")
	w.text(marginLeft, bottom+35, "Podpis uczestnika terapii ....................................")
}
