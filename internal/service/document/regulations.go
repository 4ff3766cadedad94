package document

var obligations = []string{
	"1. Utrzymywania całkowitej abstynencji od środków zmieniających nastrój, które nie zostały przepisane przez lekarza.",
	"2. Uczestniczenia we wszystkich zajęciach przewidzianych planem dnia.",
	"3. Punktualnego zgłaszania się na wszystkie zajęcia przewidziane planem dnia.",
	"4. Utrzymywania higieny osobistej i dbania o czystość i ład pomieszczeń na terenie Ośrodka.",
	"5. Należytego dbania o sprzęt, z którego korzysta podczas pobytu w Ośrodku.",
	"6. Przestrzegania ciszy nocnej w godzinach 23.00 – 07.00. W tym czasie pensjonariusze zobowiązani są do przebywania w swoich pokojach.",
	"7. Poddania się badaniu alkomatem. Klient akceptuje w/w urządzenie oraz wyniki jego badań.",
	"8. Poddania się badaniu na wykrywalność substancji psychoaktywnych, które są przeprowadzane przez Specjalistyczne Laboratoria. Klient akceptuje w/w rodzaj badania (w formie testu na mocz) oraz wynik wykonanych badań.",
	"9. Poinformowania terapeuty o chorobach przewlekłych oraz o posiadanych i przyjmowanych lekach.",
	"10. Zachowania w tajemnicy treści poruszanych na zajęciach.",
	"11. Wykonywania poleceń wydawanych przez personel Ośrodka.",
}

var rights = []string{
	"1. Poinformowania personelu Ośrodka o łamaniu abstynencji lub podejrzenia łamania abstynencji przez inne osoby przebywające w Ośrodku. Personel Ośrodka zapewnia anonimowość osób, które takie informacje przekażą.",
	"2. Zgłaszania personelowi Ośrodka aktualnych problemów.",
	"3. Prowadzenia korespondencji z innymi osobami i instytucjami.",
	"4. Kontaktów telefonicznych w czasie wolnym od zajęć.",
	"5. Oddania do depozytu rzeczy wartościowych.",
	"6. Wymiany pościeli raz na 2 tygodnie.",
	"7. Opuszczać teren Ośrodka co najmniej z dwoma innymi osobami przebywającym w Ośrodku po wcześniejszym ustaleniu z osobą dyżurującą w Ośrodku, bądź wyjścia w towarzystwie osoby dyżurującej.",
	"8. Korzystania z przepustek po wcześniejszym ustaleniu z właścicielami ośrodka.",
}

var prohibitions = []string{
	"1. Opuszczać terenu Ośrodka samemu oraz bez wpisu do „książki wyjść”.",
	"2. Przebywać poza Ośrodkiem po godz. 20.00.",
	"3. Przebywać w pokojach innych pensjonariuszy.",
	"4. Posiadać napojów zawierających alkohol.",
	"5. Posiadać środków zmieniających nastrój, które nie zostały przepisane przez lekarza.",
	"6. Grać w gry hazardowe (w tym toto-lotek), spożywać napojów energetyzujących typu „Red Bull”",
	"7. Stosować przemocy fizycznej oraz psychicznej oraz używać wulgaryzmów",
	"8. Utrzymywać kontaktów seksualnych z innymi osobami przebywającymi w Ośrodku.",
	"9. Wchodzić w relacje partnerskie z innymi osobami przebywającymi w Ośrodku.",
	"10. Wychodzić z zajęć bez zgody prowadzącego zajęcia.",
	"11. Negować zasad terapii oraz rozmawiać o nałogowej przeszłości (ile wypiłem, ile ćpałem itp.)",
	"12. Przyjmować wizyty bez wiedzy personelu Ośrodka.",
	"13. Przyjmować i wprowadzać gości bez uzgodnienia tego z personelem Ośrodka.",
	"14. Palić papierosów w całym budynku oraz wprowadzać i dokarmiać zwierzęta na terenie Ośrodka. W przypadku złamania zakazu osoba łamiąca zakaz zostanie obciążona kosztami w kwocie 500 zł.",
}

// prohibitionsContinued opens page 2.
var prohibitionsContinued = []string{
	"15. Posiadać przy sobie urządzeń elektronicznych w czasie zajęć.",
	"16. Przynosić na zajęcia jedzenia oraz napojów za wyjątkiem wody.",
	"17. Używać otwartego ognia w pokojach (np. świece, kadzidełka itp.)",
	"18. Ubierać się w wyzywający sposób (np. krótkie spódniczki, dekolty itp.)",
}

var finalProvisions = []string{
	"• Personel Ośrodka ma prawo do dokonania rewizji bagażu oraz pomieszczenia mieszkalnego w obecności Klienta.",
	"• W wyjątkowych sytuacjach np. braku możliwości skontaktowania się z pensjonariuszem przebywającym w pokoju, personel Ośrodka ma prawo wejść do pokoju w trosce o bezpieczeństwo Klienta.",
	"• W wyjątkowych przypadkach za zgodą personelu lub właściciela Ośrodka można odstąpić od niektórych punktów regulaminu.",
	"• Jeżeli Klient dokonał zniszczenia powierzonego mu sprzętu lub przez niedbalstwo i lekceważenie dopuścił do jego zniszczenia, ponosi za to odpowiedzialność materialną, co znaczy, że musi naprawić wyrządzoną szkodę na własny koszt, poprzez remont lub zakup nowego sprzętu.",
	"• Ośrodek nie ponosi odpowiedzialności za pieniądze i przedmioty nie oddane przez Klienta do depozytu.",
}

func renderRegulations(w *writer) {
	w.newPage()
	w.title("REGULAMIN POBYTU")
	w.title("W PRYWATNYM OŚRODKU LECZENIA UZALEŻNIEŃ MY WAY")
	w.space(1)

	w.bold("I. Klient w czasie pobytu w Ośrodku zobowiązany jest do:")
	w.paras(obligations)
	w.space(0.5)

	w.bold("II. Klient w czasie pobytu w Ośrodku ma prawo do:")
	w.paras(rights)
	w.space(0.5)

	w.bold("III. Klientowi w czasie pobytu w Ośrodku nie wolno:")
	w.paras(prohibitions)

	w.newPage()
	w.paras(prohibitionsContinued)
	w.space(0.5)
	w.para("Od decyzji Zespołu Klient może odwołać się do właściciela Ośrodka, który po rozpatrzeniu sprawy podejmuje ostateczną decyzję. O podjętej decyzji powiadamia się Społeczność Ośrodka.")
	w.space(0.5)
	w.para("W przypadku usunięcia klienta z powodu naruszania powyższego regulaminu bądź przerwania pobytu w Ośrodku z innych powodów Klientowi nie przysługuje zwrot poniesionych kosztów.")
	w.space(1)

	w.bold("Postanowienia końcowe:")
	w.paras(finalProvisions)
	w.space(1)

	w.para("Wyrażam zgodę na przetwarzanie moich danych osobowych w zakresie badań na wykrycie substancji psychoaktywnych.")
	w.space(0.5)
	w.para("Zapoznałem się z regulaminem Prywatnego Ośrodka Leczenia Uzależnień „My Way” akceptuję wszystkie jego warunki.")
	w.space(2)
	w.para("..................................................................")
}

func (w *writer) paras(lines []string) {
	for _, l := range lines {
		w.para(l)
	}
}
