package document

import (
	"github.com/myway/panel-api/internal/model"
)

type section struct {
	title string
	lines []string
}

var contractPage2 = []section{
	{"§ 1.", []string{
		"1. Zlecający zleca, a Ośrodek zobowiązuje się do udzielania świadczeń terapeutycznych przez okres wskazany w niniejszej umowie.",
		"2. Ośrodek oświadcza, że personel Ośrodka posiada kwalifikacje i uprawnienia niezbędne do udzielania świadczeń terapeutycznych objętych niniejszą umową oraz zobowiązuje się do udzielania tych świadczeń z zachowaniem należytej staranności, zgodnie z zasadami etyki zawodowej oraz zgodnie z posiadaną wiedzą.",
	}},
	{"§ 2.", []string{
		"1. Zlecający zobowiązany jest do:",
		"a) przekazania wszystkich znanych mu informacji o swoim stanie zdrowia personelowi Ośrodka w trakcie wstępnego wywiadu przyjęcia na terapię,",
		"b) nie zatajania lub celowego ujawniania jakichkolwiek informacji o swoim stanie zdrowia,",
		"c) korzystania z obiektów Ośrodka wyłącznie w zakresie uzgodnionym z Ośrodkiem oraz zgodnie z Regulaminem ustalonym przez Ośrodek,",
		"d) zapoznania się z Regulaminem Ośrodka i do jego przestrzegania.",
	}},
	{"§ 3.", []string{
		"1. Strony ustalają, że warunkiem bezwzględnym do przyjęcia Zlecającego na odbycie świadczenia terapeutycznego jest ujawnienie personelowi Ośrodka wszystkich informacji związanych ze stanem zdrowia Zlecającego.",
		"2. Personel Ośrodka, po konsultacji z lekarzem psychiatrą ma prawo podjęcia decyzji o przerwie w świadczeniu terapeutycznym, jeżeli podczas wstępnego wywiadu przyjęcia lub informacji uzyskanych później dokonana diagnoza stwierdza, że stan zdrowia Zlecającego wymaga zastosowania środków, które powinny być zastosowane w kierunkowo wyspecjalizowanym zakładzie leczniczym lub ośrodku medycznym. W przypadku decyzji o przerwie w przeprowadzeniu zabiegu, okres trwania umowy zostanie przedłużony o czas trwania przerwy a świadczenie terapeutyczne będzie udzielone po zakończeniu ww. przerwy na zasadach określonych w umowie.",
		"3. Ujawnienie w trakcie pobierania świadczenia terapeutycznego celowo zatajonych przez Zlecającego informacji o stanie zdrowia Zlecającego może stanowić, według uznania Ośrodka, podstawę do natychmiastowego rozwiązania umowy w zakresie obowiązków Ośrodka, a wpłacone wynagrodzenie nie podlega zwrotowi.",
		"4. Rażące naruszenie Regulaminu Ośrodka (w szczególności spożywanie alkoholu, zażywanie narkotyków i innych środków psychoaktywnych oraz leków niewydanych z przepisu lekarza) przez Zlecającego w trakcie pobierania świadczenia terapeutycznego może stanowić, według uznania Ośrodka, podstawę do natychmiastowego rozwiązania umowy w zakresie obowiązków Ośrodka, bez prawa zwrotu wynagrodzenia Zlecającemu.",
	}},
	{"§ 4.", []string{
		"1. Ośrodek jest odpowiedzialny za wykonanie niniejszej umowy na zasadach w niej określonych.",
		"2. Ośrodek nie ponosi odpowiedzialności z tytułu niewykonania lub nienależytego wykonania umowy, jeżeli będzie to wynikiem wyłącznej winy Zlecającego, w szczególności w przypadku samowolnego przerwania procesu terapeutycznego i opuszczenia Ośrodka przez Zlecającego, zatajenia przez Zlecającego informacji na temat jego stanu zdrowia lub rażącego nieprzestrzegania Regulaminu Ośrodka przez Zlecającego.",
		"3. Rezygnacja przez Zlecającego ze świadczenia terapeutycznego nie może stanowić podstawy do zwrotu wynagrodzenia z tytułu realizacji Umowy. W przypadku niemożliwości brania udziału w świadczeniu terapeutycznym przez Zlecającego z przyczyn medycznych, Zlecający ma prawo do odebrania w innym terminie niedostarczonych świadczeń wynikających z umowy po ustaniu tej przeszkody.",
		"4. Ośrodek zapewni Zlecającemu jednorazową konsultację psychiatryczną, koszt każdej następnej konsultacji psychiatrycznej ponosi Zlecający, według aktualnie obowiązującego cennika.",
		"5. Zlecający jest odpowiedzialny względem Ośrodka za wszelkie szkody powstałe swoim zawinionym działaniem w toku realizacji Umowy.",
	}},
}

var contractPage3 = []section{
	{"§ 5.", []string{
		"1. W ramach wykonania umowy Pakiet 1 lub Pakiet 2, Zlecającemu przysługuje prawo do:",
		"a) korzystania ze świadczenia terapeutycznego,",
		"b) odbycia jednorazowej konsultacji psychiatrycznej,",
		"c) otrzymania materiałów Terapeutycznych w trakcie pobytu w ośrodku",
		"2. W ramach wykonania umowy Pakiet 3, Zlecającemu przysługuje prawo do:",
		"a) korzystania ze świadczenia terapeutycznego,",
		"b) odbycia jednorazowej konsultacji psychiatrycznej,",
		"c) otrzymania materiałów Terapeutycznych w trakcie pobytu w ośrodku",
		"d) odbycia 20 indywidualnych konsultacji z terapeutą leczenia uzależnień w formie video lub tele-konsultacji,",
		"3. Prawo do świadczeń, o których mowa w ustępie 2 niniejszego paragrafu przysługuje Zlecającemu przez okres 6 miesięcy, licząc od dnia ukończenia terapii.",
	}},
	{"§ 6.", []string{
		"1. Ośrodek oświadcza, że będzie przetwarzał dane osobowe Zlecającego w sposób zgodny z postanowieniami powszechnie obowiązujących przepisów prawa, w szczególności rozporządzeniem Parlamentu Europejskiego i Rady/EU/2016/679 z dnia 27 kwietnia 2016 r. w sprawie ochrony osób fizycznych w związku z przetwarzaniem danych osobowych i w sprawie swobodnego przepływu takich danych oraz uchylenia dyrektywy 95/46/WE (Dz. urz. UE L2016, Nr 119, s.1) (zwanym dalej RODO).",
		"2. Zlecający oświadcza, że zapoznał się z klauzulą informacyjną dotyczącą przetwarzania danych osobowych przez Ośrodek, otrzymał ją i wyraża zgodę na jej treść.",
		"3. Zlecający wyraża zgodę na przetwarzanie swoich danych osobowych, w tym adresu e-mail, przez Ośrodek w celu wysyłania wiadomości edukacyjnych, informacyjnych oraz sprzedażowych związanych z działalnością Ośrodka. Zlecający ma prawo do wycofania tej zgody w dowolnym momencie, co nie wpływa na zgodność z prawem przetwarzania, które miało miejsce przed jej wycofaniem. W celu wycofania zgody Zlecający może skontaktować się z Ośrodkiem za pośrednictwem wskazanych kanałów komunikacji.",
	}},
	{"§ 7.", []string{
		"1. Wszelkie zmiany niniejszej Umowy wymagają formy pisemnej pod rygorem nieważności.",
		"2. Strony oświadczają, że z chwilą zawarcia niniejszej Umowy tracą ważność wszelkie postanowienia ustne lub zawarte w innych umowach sprzeczne z niniejszą umową. Strony nie będą mogły powoływać się na istnienie tychże postanowień w trakcie realizacji niniejszej Umowy.",
		"3. W przypadku uznania przez Sąd któregokolwiek postanowienia niniejszej Umowy za nieważne lub bezskuteczne, pozostałe postanowienia pozostają w mocy, chyba że nieważność lub bezskuteczność danego postanowienia uniemożliwia wykonanie obowiązków przez wszystkie Strony Umowy.",
		"4. Wszelkie spory mogące powstać na podstawie albo w związku z wykonywaniem niniejszej Umowy będą rozpatrywane przez Sąd właściwy ze względu na siedzibę Ośrodka.",
		"5. Umowę sporządzono w dwóch jednobrzmiących egzemplarzach, po jednej dla każdej ze Stron.",
	}},
}

const clauseTitle = "KLAUZULA INFORMACYJNA DLA OSÓB (PACJENTÓW) KORZYSTAJĄCYCH Z USŁUG OŚRODKA LECZENIA UZALEŻNIEŃ MY WAY"

const clauseOperator = "prowadzonego przez Bella Vita 3City Spółkę z ograniczoną odpowiedzialnością z siedzibą w Kąpinie przy ulicy Wichrowe Wzgórza 21, wpisaną do Krajowego Rejestru Sądowego – Rejestru Przedsiębiorców przez Sąd Rejonowy Gdańsk Północ w Gdańsku, VII Wydział Gospodarczy Krajowego Rejestru Sądowego pod numerem KRS: 0000644953."

var clausePoints = []string{
	"1. Na podstawie art. 13 Rozporządzenia Parlamentu Europejskiego i Rady (UE) 2016/679 z dnia 27 kwietnia 2016 r. w sprawie ochrony osób fizycznych w związku z przetwarzaniem danych osobowych i w sprawie swobodnego przepływu takich danych oraz uchylenia dyrektywy 95/46/WE (RODO), informujemy o przetwarzaniu danych oraz prawach związanych z przetwarzaniem tych danych.",
	"2. Administratorem Pani/Pana danych osobowych jest Bella Vita 3City Spółka z ograniczoną odpowiedzialnością z siedzibą w Kąpinie przy ulicy Wichrowe Wzgórza 21, wpisana do Krajowego Rejestru Sądowego – Rejestru Przedsiębiorców przez Sąd Rejonowy Gdańsk Północ w Gdańsku, VII Wydział Gospodarczy Krajowego Rejestru Sądowego pod numerem KRS: 0000644953. W każdej sprawie dotyczącej przetwarzania danych osobowych należy kontaktować się z administratorem poprzez e-mail: kontakt@osrodekleczeniauzaleznien.com.",
	"3. Podstawa i cel przetwarzania danych. Dane osobowe są przetwarzane:",
	"a) na podstawie zgody, w celu udzielania świadczeń dla osób (pacjentów) korzystających z usług Ośrodka Leczenia Uzależnień My Way (zwanego też dalej Ośrodkiem), a także w celu zarządzania usługami opieki zdrowotnej, na podstawie art. 9 ust. 2 lit a. RODO",
	"b) za pośrednictwem systemu monitoringu wizyjnego (wizerunek) w celu ochrony mienia i zwiększenia bezpieczeństwa na terenie Ośrodka Leczenia Uzależnień, na podstawie art. 6 ust. 1 lit f. RODO – prawnie uzasadnionym interesem realizowanym przez administratora jest zapewnienie bezpieczeństwa mienia jak i bezpieczeństwa osób przebywających na terenie ośrodka. Podanie danych w celu określonym w lit a. jest obowiązkowe w celu podjęcia terapii (korzystania z usług) Ośrodka. Dane osobowe nie będą podlegać zautomatyzowanemu podejmowaniu decyzji lub profilowaniu.",
	"4. Przekazywanie danych. Dane mogą być udostępniane podmiotom lub organom upoważnionym na podstawie przepisów prawa, a także na podstawie umów powierzenia, w szczególności osobom świadczącym usługi zdrowotne lub terapeutyczne w Ośrodku, a także dostawcom systemów informatycznych i usług IT w zakresie niezbędnym dla obsługi administracyjno-księgowym, podmiotom świadczącym usługi prawnicze bądź księgowe i podmiotom świadczącym usługi archiwizacji dokumentacji.",
	"5. Czas przechowywania danych. Okres przez jaki będą przechowywane dane jest uzależniony od ich charakteru. Dane zawarte w dokumentach obejmujących umowy, rachunki i wszelkie dane stanowiące podstawę rozliczeń podatkowych przechowywane będą przez okres lat sześciu. Pozostałe dane będą przechowywane przez okres nie dłuższy niżeli trzy lata.",
	"6. Prawa związane z przetwarzaniem danych. Posiada Pani/Pan prawo do dostępu do treści swoich danych/ danych małoletniego, ich sprostowania, a także usunięcia lub ograniczenia przetwarzania, na zasadach określonych w przepisach prawa, w tym RODO, a w przypadku danych przetwarzanych na podstawie zgody – prawo do cofnięcia zgody w dowolnym momencie przy czym cofnięcie zgody nie ma wpływu na zgodność przetwarzania, którego dokonano na jej podstawie przed cofnięciem zgody. Ponadto posiada Pani/Pan również prawo do wniesienia sprzeciwu wobec przetwarzania w sytuacjach przewidzianych przepisami prawa, w tym RODO. Posiada Pani/Pan prawo wniesienia skargi do Prezesa Urzędu Ochrony Danych Osobowych, jeżeli uzna, że przetwarzanie Pani/Pana danych osobowych narusza przepisy.",
}

func renderContract(w *writer, p *model.Patient) {
	w.newPage()
	w.title("UMOWA O PODJĘCIE TERAPII")
	w.space(2)
	w.para("zawarta w dniu " + p.ApplicationDate)
	w.space(1)
	w.para(`pomiędzy firmą: Bella Vita 3City Sp. z o.o., NIP: 588-242-22-71, ul. Wichrowe Wzgórza 21, 84-200 Kąpino, zwaną dalej "Ośrodkiem"`)
	w.para("a")
	w.space(1)

	w.bold("Panem/Panią: " + p.FullName())
	w.bold("zamieszkały/a: " + p.Address + ", " + p.Voivodeship)
	w.bold("Dowód osobisty seria i nr: " + p.IDSeries)
	w.bold("PESEL: " + p.Pesel)
	w.bold("Data urodzenia: " + p.BirthDate)
	w.bold("Numer telefonu: " + p.Phone)
	w.bold("Adres mailowy: " + p.Email)
	w.space(1)
	w.para(`zwaną dalej "Zlecającym"`)
	w.space(1)

	w.bold("Data rozpoczęcia: " + p.TreatmentStartDate)
	w.bold("Data zakończenia: " + p.TreatmentEndDate)
	w.space(1)

	w.para("Całościowa kwota terapii: " + model.FormatPLN(p.TotalAmount) + " za pakiet " + string(p.Package))
	w.para("Wpłacono zadatek w kwocie: " + model.FormatPLN(p.AmountPaid) + " gotówką / przelewem na konto Ośrodka.")
	w.para("Pozostałą kwotę w wysokości: " + model.FormatPLN(p.AmountDue()) + " za terapię")
	w.bold("gotówką/ przelewem na konto Ośrodka, wpłacona zostanie do dnia " + p.PaymentDeadline)

	w.newPage()
	w.sections(contractPage2)

	w.newPage()
	w.sections(contractPage3)
	w.space(1)
	w.heading(clauseTitle)
	w.space(1)
	w.para(clauseOperator)

	w.newPage()
	for _, t := range clausePoints {
		w.para(t)
		w.space(0.5)
	}
	w.space(4)
	w.font(false, 10)
	w.text(marginLeft+20, w.y, "OŚRODEK")
	w.text(130, w.y, "ZLECAJĄCY")
	w.text(marginLeft, w.y+20, ".............................................")
	w.text(120, w.y+20, ".............................................")
}

func (w *writer) sections(sections []section) {
	for _, s := range sections {
		w.heading(s.title)
		for _, l := range s.lines {
			w.para(l)
			w.space(0.5)
		}
	}
}
