package email

const welcomeHTMLSource = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1.0"></head>
<body style="margin:0;padding:0;background:#f5f5f5;font-family:Arial,Helvetica,sans-serif;">
<div style="max-width:600px;margin:20px auto;background:#ffffff;border-radius:12px;overflow:hidden;box-shadow:0 2px 8px rgba(0,0,0,0.08);">
  <div style="background:linear-gradient(135deg,#0d9488,#14b8a6);padding:32px 24px;text-align:center;">
    <h1 style="color:#ffffff;margin:0;font-size:24px;">🏡 Ośrodek My Way</h1>
    <p style="color:#ccfbf1;margin:8px 0 0;font-size:14px;">Twój termin został potwierdzony ✓</p>
  </div>
  <div style="padding:32px 24px;">
    <p style="font-size:18px;color:#333;margin:0 0 16px;">Cześć <strong>{{.FirstName}}</strong>! 👋</p>
    <p style="font-size:15px;color:#555;line-height:1.6;margin:0 0 16px;">
      Potwierdzamy Twój termin w Ośrodku My Way. Cieszymy się, że podejmujesz ten ważny krok. Jesteśmy tu dla Ciebie i będziemy Cię wspierać na każdym etapie.
    </p>
    <div style="background:#f0fdfa;border:1px solid #99f6e4;border-radius:8px;padding:20px;margin:24px 0;">
      <h3 style="margin:0 0 12px;color:#0d9488;font-size:16px;">📋 Szczegóły rezerwacji</h3>
      <table style="width:100%;font-size:14px;color:#555;">
        <tr><td style="padding:6px 0;font-weight:bold;width:140px;">Wariant terapii:</td><td>{{.PackageName}}</td></tr>
        {{- if .StartDate}}
        <tr><td style="padding:6px 0;font-weight:bold;">Data przyjazdu:</td><td><strong style="color:#333;">{{.StartDate}}</strong></td></tr>
        {{- end}}
        {{- if .EndDate}}
        <tr><td style="padding:6px 0;font-weight:bold;">Planowany koniec:</td><td>{{.EndDate}}</td></tr>
        {{- end}}
      </table>
    </div>
    <div style="text-align:center;margin:24px 0;">
      <p style="font-size:15px;color:#555;margin:0 0 12px;">🎬 Przed przyjazdem poznaj nas lepiej:</p>
      <a href="https://osrodek-myway.pl" style="display:inline-block;background:#0d9488;color:#ffffff;padding:14px 28px;border-radius:8px;text-decoration:none;font-weight:bold;font-size:15px;">Zobacz nasz ośrodek →</a>
    </div>
    <div style="background:#fffbeb;border:1px solid #fde68a;border-radius:8px;padding:20px;margin:24px 0;">
      <h3 style="margin:0 0 12px;color:#92400e;font-size:16px;">🎒 Co spakować?</h3>
      <table style="font-size:14px;color:#555;line-height:1.8;">
        <tr><td>✅ Środki higieny osobistej (szampon, żel, pasta)</td></tr>
        <tr><td>✅ Ręcznik</td></tr>
        <tr><td>✅ Ubrania i bielizna na min. 7 dni (wygodne!)</td></tr>
        <tr><td>✅ Strój sportowy (jeśli lubisz aktywność)</td></tr>
        <tr><td>✅ Obuwie + klapki po ośrodku</td></tr>
        <tr><td>✅ Kurtka dostosowana do pogody</td></tr>
        <tr><td>✅ Laptop i telefon (jeśli jesteś aktywny/a zawodowo)</td></tr>
        <tr><td>✅ Dowód osobisty (potrzebny przy przyjęciu)</td></tr>
      </table>
    </div>
    <div style="background:#f8fafc;border-radius:8px;padding:20px;margin:24px 0;text-align:center;">
      <p style="font-size:15px;color:#555;margin:0 0 8px;">Masz pytania? Dzwoń śmiało:</p>
      <p style="margin:0;"><a href="tel:+48731395295" style="font-size:20px;color:#0d9488;font-weight:bold;text-decoration:none;">📞 731 395 295</a></p>
      <p style="margin:8px 0 0;"><a href="tel:+48536598821" style="font-size:16px;color:#0d9488;text-decoration:none;">📞 536 598 821</a></p>
    </div>
    <p style="font-size:15px;color:#555;line-height:1.6;">Do zobaczenia wkrótce! 🙌</p>
    <p style="font-size:15px;color:#333;margin:0;"><strong>Ekipa My Way</strong></p>
  </div>
  <div style="background:#f8fafc;padding:16px 24px;text-align:center;border-top:1px solid #e5e7eb;">
    <a href="https://osrodek-myway.pl" style="color:#0d9488;font-size:13px;text-decoration:none;">osrodek-myway.pl</a>
    <span style="color:#d1d5db;margin:0 8px;">·</span>
    <span style="color:#9ca3af;font-size:13px;">ul. Wichrowe Wzgórza 21, Kąpino</span>
  </div>
</div>
</body></html>`

const welcomePlainSource = `Cześć {{.FirstName}}!

Potwierdzamy Twój termin w Ośrodku My Way.

Wariant terapii: Pakiet {{.Package}}
{{if .StartDate}}Data przyjazdu: {{.StartDate}}
{{end}}
Co spakować:
- Środki higieny osobistej
- Ręcznik
- Ubrania na min. 7 dni
- Strój sportowy
- Obuwie + klapki
- Kurtka
- Laptop i telefon
- Dowód osobisty

Masz pytania? Dzwoń: 731 395 295

Do zobaczenia!
Ekipa My Way
osrodek-myway.pl`

const farewellHTMLSource = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1.0"></head>
<body style="margin:0;padding:0;background:#f5f5f5;font-family:Arial,Helvetica,sans-serif;">
<div style="max-width:600px;margin:20px auto;background:#ffffff;border-radius:12px;overflow:hidden;box-shadow:0 2px 8px rgba(0,0,0,0.08);">
  <div style="background:linear-gradient(135deg,#7c3aed,#a78bfa);padding:32px 24px;text-align:center;">
    <h1 style="color:#ffffff;margin:0;font-size:24px;">👊 Gratulacje, {{.FirstName}}!</h1>
    <p style="color:#e9d5ff;margin:8px 0 0;font-size:14px;">To początek Twojej nowej drogi</p>
  </div>
  <div style="padding:32px 24px;">
    <p style="font-size:18px;color:#333;margin:0 0 16px;">Cześć <strong>{{.FirstName}}</strong>! 💜</p>
    <p style="font-size:15px;color:#555;line-height:1.6;margin:0 0 16px;">
      Właśnie domykasz ważny rozdział. Gratuluję Ci z całego serca, wiemy, ile siły i odwagi kosztowała Cię ta praca. Jesteśmy z Ciebie naprawdę dumni!
    </p>
    <p style="font-size:15px;color:#555;line-height:1.6;margin:0 0 16px;">
      Pamiętaj, że wyjazd z ośrodka to nie koniec naszej znajomości. Chcemy Cię dalej wspierać w Twojej drodze.
    </p>
    <div style="background:#f5f3ff;border:1px solid #ddd6fe;border-radius:8px;padding:20px;margin:24px 0;">
      <h3 style="margin:0 0 12px;color:#7c3aed;font-size:16px;">🎯 Co mamy dla Ciebie dalej?</h3>
      <table style="font-size:14px;color:#555;line-height:2;">
        {{- if .Package3}}
        <tr><td>💬 <strong>20 spotkań indywidualnych</strong>: online lub na miejscu</td></tr>
        {{- end}}
        <tr><td>⭐ <strong>Grupa VIP z Krystianem Nagabą</strong>: dostęp w ramach pakietu</td></tr>
      </table>
    </div>
    <div style="background:#ecfdf5;border:1px solid #a7f3d0;border-radius:8px;padding:20px;margin:24px 0;">
      <h3 style="margin:0 0 12px;color:#065f46;font-size:16px;">🤝 Zostań z nami w kontakcie!</h3>
      <p style="font-size:14px;color:#555;line-height:1.6;margin:0 0 8px;">
        Trzeźwienie to sport zespołowy, dlatego zapraszamy Cię do naszej społeczności:
      </p>
      <table style="font-size:14px;color:#555;line-height:2;">
        <tr><td>☕ <strong>Sobotnie zjazdy</strong>: w każdą sobotę o 10:00 w ośrodku. Wpadaj na kawę i rozmowę!</td></tr>
        <tr><td>📱 <strong>Grupa na WhatsApp</strong>: nasza bezpieczna przestrzeń 24/7. Jeśli nie masz dostępu, daj znać!</td></tr>
      </table>
    </div>
    <div style="text-align:center;margin:24px 0;">
      <p style="font-size:15px;color:#555;margin:0 0 12px;">📖 Nasza książka dla Ciebie i Twoich bliskich:</p>
      <a href="https://wygrajtrzezwezycie.pl" style="display:inline-block;background:#7c3aed;color:#ffffff;padding:14px 28px;border-radius:8px;text-decoration:none;font-weight:bold;font-size:15px;">Wygraj Trzeźwe Życie →</a>
    </div>
    <div style="background:#fef2f2;border:1px solid #fecaca;border-radius:8px;padding:20px;margin:24px 0;text-align:center;">
      <p style="font-size:15px;color:#555;margin:0 0 4px;"><strong>Pamiętaj...</strong></p>
      <p style="font-size:14px;color:#555;line-height:1.6;margin:0 0 12px;">
        Gdyby działo się coś trudnego albo po prostu będziesz mieć gorszy dzień, dzwoń śmiało:
      </p>
      <p style="margin:0;"><a href="tel:+48536598821" style="font-size:18px;color:#dc2626;font-weight:bold;text-decoration:none;">📞 536 598 821</a></p>
      <p style="margin:4px 0 0;"><a href="tel:+48731395295" style="font-size:18px;color:#dc2626;font-weight:bold;text-decoration:none;">📞 731 395 295</a></p>
    </div>
    <p style="font-size:15px;color:#555;line-height:1.6;">
      Trzymamy za Ciebie mocno kciuki. Powodzenia na „wolności" i do zobaczenia wkrótce! 🙌
    </p>
    <p style="font-size:15px;color:#333;margin:0;">Ściskamy,<br><strong>Ekipa My Way</strong> 💚</p>
  </div>
  <div style="background:#f8fafc;padding:16px 24px;text-align:center;border-top:1px solid #e5e7eb;">
    <a href="https://osrodek-myway.pl" style="color:#0d9488;font-size:13px;text-decoration:none;">osrodek-myway.pl</a>
    <span style="color:#d1d5db;margin:0 8px;">·</span>
    <a href="https://wygrajtrzezwezycie.pl" style="color:#7c3aed;font-size:13px;text-decoration:none;">wygrajtrzezwezycie.pl</a>
  </div>
</div>
</body></html>`

const farewellPlainSource = `Cześć {{.FirstName}}!

Gratulacje, właśnie domykasz ważny rozdział!

Co dalej:
{{if .Package3}}- 20 spotkań indywidualnych (online lub na miejscu)
{{end}}- Grupa VIP z Krystianem Nagabą

Zostań z nami:
- Sobotnie zjazdy: co sobotę o 10:00 w ośrodku
- Grupa na WhatsApp: nasza przestrzeń 24/7

Książka: https://wygrajtrzezwezycie.pl

Gdyby działo się coś trudnego, dzwoń:
536 598 821
731 395 295

Ściskamy!
Ekipa My Way
osrodek-myway.pl`

const alertHTMLSource = `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:20px;">
  <div style="background:linear-gradient(135deg,#0f766e 0%,#115e59 100%);padding:20px;border-radius:10px 10px 0 0;">
    <h1 style="color:white;margin:0;font-size:22px;">Nowy pacjent w panelu MyWay</h1>
  </div>
  <div style="background:#f8fafc;padding:25px;border:1px solid #e2e8f0;border-top:none;">
    <table style="width:100%;border-collapse:collapse;font-size:14px;">
      <tr><td style="padding:8px 0;color:#64748b;width:160px;">Pacjent:</td><td style="padding:8px 0;font-weight:bold;color:#1e293b;">{{.Name}}</td></tr>
      <tr><td style="padding:8px 0;color:#64748b;">Pakiet:</td><td style="padding:8px 0;color:#1e293b;">{{.Package}}</td></tr>
      {{- if .Phone}}
      <tr><td style="padding:8px 0;color:#64748b;">Telefon:</td><td style="padding:8px 0;color:#1e293b;">{{.Phone}}</td></tr>
      {{- end}}
      {{- if .Email}}
      <tr><td style="padding:8px 0;color:#64748b;">E-mail:</td><td style="padding:8px 0;color:#1e293b;">{{.Email}}</td></tr>
      {{- end}}
      {{- if .Region}}
      <tr><td style="padding:8px 0;color:#64748b;">Województwo:</td><td style="padding:8px 0;color:#1e293b;">{{.Region}}</td></tr>
      {{- end}}
      {{- if .Start}}
      <tr><td style="padding:8px 0;color:#64748b;">Termin:</td><td style="padding:8px 0;color:#1e293b;">{{.Start}}{{if .End}} - {{.End}}{{end}}</td></tr>
      {{- end}}
      <tr><td style="padding:8px 0;color:#64748b;">Kwota:</td><td style="padding:8px 0;color:#1e293b;">{{.Total}}</td></tr>
      <tr><td style="padding:8px 0;color:#64748b;">Wpłacono:</td><td style="padding:8px 0;color:#1e293b;">{{.Paid}}</td></tr>
      <tr><td style="padding:8px 0;color:#64748b;">Do zapłaty:</td><td style="padding:8px 0;font-weight:bold;color:#1e293b;">{{.Due}}</td></tr>
      {{- if .Notes}}
      <tr><td style="padding:8px 0;color:#64748b;">Notatki:</td><td style="padding:8px 0;color:#1e293b;">{{.Notes}}</td></tr>
      {{- end}}
    </table>
  </div>
  <div style="background:#1e293b;padding:15px;border-radius:0 0 10px 10px;text-align:center;">
    <p style="color:#94a3b8;margin:0;font-size:12px;"><strong style="color:#fbbf24;">MyWay</strong> panel</p>
  </div>
</div>`

const alertPlainSource = `Nowy pacjent w panelu MyWay
Pacjent: {{.Name}}
Pakiet: {{.Package}}
{{if .Phone}}Telefon: {{.Phone}}
{{end}}{{if .Email}}E-mail: {{.Email}}
{{end}}{{if .Region}}Województwo: {{.Region}}
{{end}}{{if .Start}}Termin: {{.Start}}{{if .End}} - {{.End}}{{end}}
{{end}}Kwota: {{.Total}}
Wpłacono: {{.Paid}}
Do zapłaty: {{.Due}}
{{if .Notes}}Notatki: {{.Notes}}
{{end}}MyWay`
