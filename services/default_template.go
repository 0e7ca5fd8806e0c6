package services

// DefaultInvoiceTemplate is the built-in invoice markup used when an
// organization has no active template of its own. It only references keys
// from the variable dictionary, so it renders with any layout.
const DefaultInvoiceTemplate = `<div class="header">
    <div class="company-info">
        <h1>{{company.name}}</h1>
        <p>{{company.address}}</p>
        <p>{{company.postal_code}} {{company.city}}</p>
        <p>Tel: {{company.phone}}</p>
        <p>Email: {{company.email}}</p>
    </div>
    <div class="invoice-info">
        <div class="invoice-number">Factuur {{invoice.number}}</div>
        <p><strong>Factuurdatum:</strong> {{invoice.date}}</p>
        <p><strong>Vervaldatum:</strong> {{invoice.due_date}}</p>
    </div>
</div>

<div class="content">
    <div class="section-title">Factuuradres:</div>
    <div>{{client.name}}</div>
    <div>{{client.address}}</div>
    <div>{{client.postal_code}} {{client.city}}</div>

    {{invoice.line_items}}

    <div class="footer">
        <p>Betaling binnen {{invoice.payment_terms}} dagen na factuurdatum.</p>
        <p>{{company.name}} | KvK: {{company.kvk_number}} | BTW-nr: {{company.vat_number}}</p>
        <p>IBAN: {{company.iban}} | BIC: {{company.bic}}</p>
    </div>
</div>`

// DefaultQuoteTemplate is the built-in quote counterpart.
const DefaultQuoteTemplate = `<div class="header">
    <div class="company-info">
        <h1>{{company.name}}</h1>
        <p>{{company.address}}</p>
        <p>{{company.postal_code}} {{company.city}}</p>
        <p>Tel: {{company.phone}}</p>
        <p>Email: {{company.email}}</p>
    </div>
    <div class="invoice-info">
        <div class="invoice-number">Offerte {{quote.number}}</div>
        <p><strong>Offertedatum:</strong> {{quote.date}}</p>
        <p><strong>Geldig tot:</strong> {{quote.valid_until}}</p>
    </div>
</div>

<div class="content">
    <div class="section-title">Offerte voor:</div>
    <div>{{client.name}}</div>
    <div>{{client.address}}</div>
    <div>{{client.postal_code}} {{client.city}}</div>

    {{quote.line_items}}

    <div class="footer">
        <p>Deze offerte is geldig tot {{quote.valid_until}}.</p>
        <p>{{company.name}} | KvK: {{company.kvk_number}} | BTW-nr: {{company.vat_number}}</p>
    </div>
</div>`
