package sqlinline

const QCreateOrder = `--sql ca690e83-e799-483c-9d44-0d0ab9961d6c
insert into orders(
  id,
  artwork_id,
  artwork_url,
  style_id,
  email,
  status,
  amount_pence,
  currency,
  stripe_session_id,
  created_at,
  updated_at
)
values ($1, $2, $3, $4, $5, 'pending', $6, $7, $8, now(), now())
returning id;
`

const QGetOrder = `--sql 33941781-ea16-454c-97c8-ac2d87a5f50b
select id, artwork_id, artwork_url, style_id, email, status,
       amount_pence, currency, stripe_session_id,
       coalesce(print_file_url, ''), coalesce(qr_url, ''), coalesce(qr_target_url, ''),
       created_at, updated_at
from orders
where id = $1;
`

const QMarkOrderPaid = `--sql 62f27572-03ff-4c7a-9917-5a9130e1b115
update orders
set status = 'paid', stripe_session_id = $2, email = coalesce(nullif($3, ''), email), updated_at = now()
where id = $1 and status = 'pending';
`

const QRecordPrintFile = `--sql f587611d-dcdb-4298-8f3c-4b22d6476316
update orders
set status = 'fulfilled',
    print_file_url = $2,
    qr_url = $3,
    qr_target_url = $4,
    updated_at = now()
where id = $1;
`

const QMarkOrderFailed = `--sql b29b4f3d-dbc9-4a7d-8e64-2d52ae7bbe09
update orders
set status = 'failed', updated_at = now()
where id = $1;
`
