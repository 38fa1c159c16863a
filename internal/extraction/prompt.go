package extraction

// cashMemoPrompt is the shared instruction sent to every provider. It
// sketches the target JSON shape rather than enforcing a schema; the model
// is not guaranteed to conform, so responses are parsed defensively
// downstream.
const cashMemoPrompt = `You are reading a photographed retail cash memo. Extract every field you can and return ONLY a JSON object in exactly this shape:
{
  "cashMemo": {
    "number": "...",
    "date": "...",
    "shop": {
      "name": "...",
      "tagline": "...",
      "address": "...",
      "phone": "...",
      "cell": "..."
    },
    "customer": {
      "name": "...",
      "address": "...",
      "number": "..."
    },
    "products": [
      {
        "slNo": 1,
        "description": "...",
        "size": "...",
        "quantity": 0,
        "rate": 0,
        "amount": 0,
        "discount": 0
      }
    ],
    "totals": {
      "total": 0,
      "advance": 0,
      "balance": 0,
      "discount": 0
    },
    "inWords": "Write the total or balance amount in words, e.g., 1250 -> 'One Thousand Two Hundred Fifty Only'",
    "footer": {
      "delivery": "...",
      "note": "...",
      "receivedBy": "...",
      "for": "..."
    },
    "language": "auto-detect"
  }
}

Keep the memo's own wording and script (the document may be in Bangla). Use empty strings or 0 for anything you cannot read. Do not add commentary around the JSON.`
