package sqlinline

const QWorkerClaimOrder = `--sql 39f2f07e-ae7f-400c-b1c4-d178c81f9233
with next_order as (
    select id
    from orders
    where status = 'paid' and print_file_url is null
    order by updated_at asc
    for update skip locked
    limit 1
),
claimed as (
    update orders
    set status = 'printing', updated_at = now()
    where id in (select id from next_order)
    returning id, artwork_id, artwork_url
)
select * from claimed;
`
