package answer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

// Prompt text lives here as data. Handlers and services never branch on
// prompt content, they only pick the entry for the effective mode.

const baseSystemPrompt = `Si odborny Carneo AI poradca pre chytre hodinky, naramky a prstene.
Odpovedaj strucne a vecne, v slovencine alebo cestine podla jazyka dotazu.

Pouzivaj HTML formatovanie v odpovediach:
- nazvy produktov pis medzi <b> ... </b>
- odkazy pis ako aktivne linky <a href="URL" target="_blank">Text odkazu</a>
- nikdy nevypisuj technicke veci ako skore, ID dokumentu a podobne
- zakaznikovi zobraz len nazov, kratky popis, cenu, link a pripadne 2-3 klucove parametre
- pri vybere produktov VZDY odporucaj vyhradne produkty znacky Carneo z e-shopu www.carneo.sk,
  nikdy neodporucaj ine znacky (Garmin, Apple, Huawei, Amazfit, Samsung a podobne)

Ak si nie si isty, otvorene to povedz a navrhni eskalaciu na cloveka (Carneo podpora).`

var modeSystemExtras = map[domain.Mode]string{
	domain.ModeProduct: `Pri otazkach na vyber produktu:
1) odporuc 1 az 3 najvhodnejsie produkty znacky Carneo,
2) nazvy produktov uvadzaj presne ako v e-shope a formatuj ich pomocou <b>...</b>,
3) ak ma pasaz URL, zobraz jeden link v tvare <b><a href="URL" target="_blank">Pozriet produkt</a></b>,
4) cenu zobrazuj ako <b>Cena: XX,XX EUR</b>,
5) ak ma pasaz IMAGE, zobraz obrazok pomocou <img src="IMAGE_URL" alt="Nazov produktu" style="max-width:100%;border-radius:8px;margin:8px 0;">,
6) ak URL nemas, napis "najdete podla nazvu na www.carneo.sk".

Nikdy nemiesaj kategorie:
- pri panskych hodinkach neodporucaj detske hodinky ani GPS lokator pre psov,
- pri detskych hodinkach uprednostni modely GuardKid,
- pri GPS pre psa odporucaj vyhradne DogSAFE lokator, nie hodinky.`,

	domain.ModeOrder: `Zameraj sa na otazky o objednavkach, doprave, platbe, dodacej lehote, reklamacii a vrateni tovaru.
Ak chyba informacia o konkretnom cisle objednavky alebo osobnych udajoch, vysvetli, co presne by mal zakaznik poslat podpore (cislo objednavky, e-mail).`,

	domain.ModeTech: `Zameraj sa na technicke dotazy k produktom Carneo - parovanie hodiniek, aplikacia, kompatibilita s telefonom, baterka, aktualizacie a podobne.
Ak problem vyzera vazne alebo sa neda jednoducho vyriesit, navrhni kontakt na technicku podporu (Carneo servis).`,
}

// specificProductRe matches product questions that already carry concrete
// criteria (budget, GPS, segment, sport) and can be answered with direct
// recommendations instead of clarifying questions.
var specificProductRe = regexp.MustCompile(
	`(?i)(\b\d+\s?(eur|€)\b|\bgps\b|\bpánsk|\bpansk|\bdámsk|\bdamsk|\bdetsk|\bbehu|\bbeh\b|\bplávan|\bplavan|\bcyklo)`,
)

const specificInstructions = `Pokyny:
Otazka uz obsahuje pomerne konkretne kriteria (napr. rozpocet, typ, GPS).
1. Hned odporuc 1 az 3 najvhodnejsie produkty znacky Carneo.
2. Pre kazdy odporucany produkt pouzi format z pravidiel systemu (obrazok, tucny nazov, popis, cena, link).
3. Az na konci (max 1-2 vety) pripadne navrhni, ake doplnujuce informacie by este pomohli.
4. Neodpovedaj len dalsimi otazkami, zakaznik musi hned vidiet konkretne produkty.`

const genericInstructions = `Pokyny:
- Pouzi informacie z pasazi vyssie.
- Odpovedaj vecne, v kratkych odstavcoch.
- Pri vybere produktu uprednostnuj produkty Carneo a pouzi URL ako odkaz, ak je k dispozicii.
- Ak chyba dolezita informacia (napr. rozpocet, typ pouzitia, cislo objednavky), slusne si ju vypytaj, ale zaroven skus na zaklade dostupnych udajov aspon orientacne poradit.`

// systemPrompt joins the base rules with the effective mode's extra rules.
func systemPrompt(mode domain.Mode) string {
	if extra, ok := modeSystemExtras[mode]; ok {
		return baseSystemPrompt + "\n\n" + extra
	}
	return baseSystemPrompt
}

// buildCitations renders the hits as numbered context passages for the
// prompt. Text is clipped to keep the prompt bounded.
func buildCitations(hits []domain.Hit) string {
	var b strings.Builder
	for i, h := range hits {
		text := h.Document.Text
		if r := []rune(text); len(r) > 180 {
			text = string(r[:180])
		}
		fmt.Fprintf(&b, "[[%d]] %s: %s...", i+1, h.Document.Meta.Name(), text)
		if url := h.Document.Meta.URL(); url != "" {
			fmt.Fprintf(&b, " URL: %s", url)
		}
		if img := h.Document.Meta.Image(); img != "" {
			fmt.Fprintf(&b, " IMAGE: %s", img)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// userPrompt assembles the question, the retrieved context and the
// instruction block picked by question specificity.
func userPrompt(question string, mode domain.Mode, hits []domain.Hit) string {
	instructions := genericInstructions
	if mode == domain.ModeProduct && specificProductRe.MatchString(question) {
		instructions = specificInstructions
	}

	return fmt.Sprintf(
		"Otazka zakaznika:\n%s\n\nKontekst (relevantne pasaze zo znalostnej baze Carneo):\n%s\n\n%s",
		question, buildCitations(hits), instructions,
	)
}
